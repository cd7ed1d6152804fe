package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mikeoller82/youtube-shorts-generator/agents"
	"github.com/mikeoller82/youtube-shorts-generator/completion"
	"github.com/mikeoller82/youtube-shorts-generator/config"
	"github.com/mikeoller82/youtube-shorts-generator/encoder"
	"github.com/mikeoller82/youtube-shorts-generator/media"
	"github.com/mikeoller82/youtube-shorts-generator/pipeline"
	"github.com/mikeoller82/youtube-shorts-generator/relevance"
	"github.com/mikeoller82/youtube-shorts-generator/storyboard"
	"github.com/mikeoller82/youtube-shorts-generator/subtitle"
	"github.com/mikeoller82/youtube-shorts-generator/types"
	"github.com/mikeoller82/youtube-shorts-generator/upload"
	"github.com/mikeoller82/youtube-shorts-generator/voice"
)

func main() {
	topic := flag.String("topic", "", "topic for the video")
	timeFrame := flag.String("timeframe", "past week", "time frame for recent events (e.g. 'past week', '30 days')")
	length := flag.Int("length", 60, "desired video length in seconds")
	storyboardFile := flag.String("storyboard", "", "path to pre-written storyboard text (skips the content agents)")
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	outPath := flag.String("out", "", "output video path (default <output>/youtube_short.mp4)")
	flag.Parse()

	// Load .env (local dev only — CI uses injected secrets)
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *topic == "" && *storyboardFile == "" {
		log.Fatal("Either -topic or -storyboard is required")
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	output := *outPath
	if output == "" {
		output = filepath.Join(cfg.Paths.Output, "youtube_short.mp4")
	}

	runID := uuid.NewString()[:8]
	log.Printf("🎬 Shorts pipeline starting — Run ID: %s", runID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := &types.PipelineState{
		RunID:     runID,
		Topic:     *topic,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveJSON(filepath.Join(cfg.Paths.Logs, "pipeline_state_"+runID+".json"), state)
		if state.Error != "" {
			log.Printf("❌ Pipeline failed: %s", state.Error)
			os.Exit(1)
		}
		log.Printf("✅ Pipeline complete! Video: %s", state.VideoFile)
	}()

	// ─────────────────────────────────────────────
	// Content agents (skipped with -storyboard)
	// ─────────────────────────────────────────────
	var content *agents.Agents
	var storyboardText string
	var metadata *types.VideoMetadata

	if *storyboardFile != "" {
		data, err := os.ReadFile(*storyboardFile)
		if err != nil {
			state.Error = fmt.Sprintf("read storyboard file: %v", err)
			return
		}
		storyboardText = string(data)
	} else {
		groqKey := os.Getenv("GROQ_API_KEY")
		tavilyKey := os.Getenv("TAVILY_API_KEY")
		if groqKey == "" || tavilyKey == "" {
			state.Error = "GROQ_API_KEY and TAVILY_API_KEY must be set to run the content agents"
			return
		}

		client := completion.NewClient(cfg.Completion.Endpoint, groqKey, 60*time.Second)
		search := agents.NewWebSearchTool(cfg.Search.Endpoint, tavilyKey, cfg.Search.NumResults, 30*time.Second)
		content = agents.New(client, search, cfg.Completion)

		storyboardText, metadata, err = runContentAgents(ctx, content, *topic, *timeFrame, *length)
		if err != nil {
			state.Error = err.Error()
			return
		}
		state.Metadata = metadata
	}

	// ─────────────────────────────────────────────
	// Storyboard parsing and keyword enhancement
	// ─────────────────────────────────────────────
	log.Println("\n━━━ Storyboard ━━━")
	scenes := storyboard.Parse(storyboardText)
	if len(scenes) == 0 {
		state.Error = "storyboard text produced no scenes"
		return
	}

	enhancer, err := storyboard.NewEnhancer()
	if err != nil {
		state.Error = fmt.Sprintf("keyword enhancer: %v", err)
		return
	}
	for i := range scenes {
		if err := enhancer.Enhance(&scenes[i]); err != nil {
			log.Printf("Warning: keyword enhancement failed: %v — keeping parsed keywords", err)
		}
	}
	state.Storyboard = scenes

	// ─────────────────────────────────────────────
	// Compilation
	// ─────────────────────────────────────────────
	compiler, err := buildCompiler(cfg)
	if err != nil {
		state.Error = err.Error()
		return
	}

	if err := compiler.Run(ctx, scenes, output); err != nil {
		state.Error = err.Error()
		return
	}
	state.VideoFile = output

	// ─────────────────────────────────────────────
	// Optional upload
	// ─────────────────────────────────────────────
	if cfg.Upload.Enabled && metadata != nil {
		log.Println("\n━━━ Upload ━━━")
		uploader := upload.New(cfg)
		videoID, videoURL, err := uploader.Run(ctx, output, metadata)
		if err != nil {
			log.Printf("Warning: upload failed: %v — video kept at %s", err, output)
		} else {
			state.YouTubeURL = videoURL
			_ = upload.LogUpload(videoID, videoURL, output, cfg.Paths.Logs, metadata)
		}
	}
}

// runContentAgents walks the upstream agent sequence: research →
// titles → selection → description → hashtags → script → storyboard.
func runContentAgents(ctx context.Context, content *agents.Agents, topic, timeFrame string, length int) (string, *types.VideoMetadata, error) {
	research, err := content.Research(ctx, topic, timeFrame, length)
	if err != nil {
		return "", nil, fmt.Errorf("research agent: %w", err)
	}

	titles, err := content.GenerateTitles(ctx, research)
	if err != nil {
		return "", nil, fmt.Errorf("title generation agent: %w", err)
	}

	selection, err := content.SelectTitle(ctx, titles)
	if err != nil {
		return "", nil, fmt.Errorf("title selection agent: %w", err)
	}
	selectedTitle := agents.ExtractSelectedTitle(selection)
	log.Printf("Selected title: %q", selectedTitle)

	description, err := content.GenerateDescription(ctx, selectedTitle)
	if err != nil {
		return "", nil, fmt.Errorf("description agent: %w", err)
	}

	hashtags, err := content.GenerateHashtags(ctx, selectedTitle)
	if err != nil {
		return "", nil, fmt.Errorf("hashtag agent: %w", err)
	}

	script, err := content.GenerateScript(ctx, research, length)
	if err != nil {
		return "", nil, fmt.Errorf("script agent: %w", err)
	}

	storyboardText, err := content.GenerateStoryboard(ctx, script)
	if err != nil {
		return "", nil, fmt.Errorf("storyboard agent: %w", err)
	}

	metadata := &types.VideoMetadata{
		Title:       selectedTitle,
		Description: description,
		Tags:        agents.ParseTags(hashtags, 35),
	}
	return storyboardText, metadata, nil
}

// buildCompiler wires the compilation core and its collaborators.
func buildCompiler(cfg *config.Config) (*pipeline.Compiler, error) {
	enc := encoder.New(config.Seconds(cfg.Media.CallTimeoutSec))

	ttsCommand := cfg.Voice.Command
	if envCmd := os.Getenv("TTS_COMMAND"); envCmd != "" {
		ttsCommand = envCmd
	}
	synth, err := voice.NewCommandSynthesizer(ttsCommand, cfg.Voice.Retries, config.Seconds(cfg.Voice.CallTimeoutSec))
	if err != nil {
		return nil, err
	}
	voiceStage := voice.New(cfg, synth, enc)

	aligner := subtitle.NewGentleAligner(cfg.Align.Endpoint, config.Seconds(cfg.Align.TimeoutSec))
	subtitleStage := subtitle.New(aligner)

	var images media.ImageGenerator
	if key := os.Getenv("TOGETHER_API_KEY"); key != "" {
		images = media.NewImageGenClient(cfg.ImageGen, key)
	} else {
		log.Println("Warning: TOGETHER_API_KEY not set — image generation disabled")
	}

	var videos media.VideoFetcher
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		scorer, err := relevance.NewScorer()
		if err != nil {
			return nil, fmt.Errorf("relevance scorer: %w", err)
		}
		searcher := media.NewHTTPSearcher(cfg.Search.Endpoint, key, cfg.Search.NumResults, config.Seconds(cfg.Media.CallTimeoutSec))
		videos = media.NewFetcher(searcher, scorer, config.Seconds(cfg.Media.CallTimeoutSec))
	} else {
		log.Println("Warning: TAVILY_API_KEY not set — stock video search disabled")
	}

	resolver := media.NewResolver(cfg, enc, images, videos)
	return pipeline.NewCompiler(cfg, enc, voiceStage, subtitleStage, resolver), nil
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
