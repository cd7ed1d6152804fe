// Package voice synthesizes per-scene narration, measures each
// segment's real duration and joins the segments into one track.
package voice

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikeoller82/youtube-shorts-generator/config"
	"github.com/mikeoller82/youtube-shorts-generator/encoder"
	"github.com/mikeoller82/youtube-shorts-generator/textutil"
	"github.com/mikeoller82/youtube-shorts-generator/types"
)

// NoVoiceoverSentinel marks a scene that intentionally carries no
// narration. Such scenes contribute silence of their adjusted duration.
const NoVoiceoverSentinel = "none, no voiceover, no subtitles, just music"

// Synthesizer is the TTS collaborator contract.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, outFile string) error
}

// Stage runs narration synthesis for a whole storyboard.
type Stage struct {
	cfg   *config.Config
	synth Synthesizer
	enc   encoder.Runner
}

func New(cfg *config.Config, synth Synthesizer, enc encoder.Runner) *Stage {
	return &Stage{cfg: cfg, synth: synth, enc: enc}
}

// Silent reports whether a narration text means "no voiceover".
func Silent(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "" || t == "none" || t == NoVoiceoverSentinel
}

// Run synthesizes one audio segment per narrated scene, in order,
// records measured durations on the scenes and concatenates the
// segments into a single track. A single scene's failure fails the
// stage: subtitle alignment needs a contiguous transcript-to-audio
// correspondence, so there is no continuing with a gap.
func (s *Stage) Run(ctx context.Context, scenes types.Storyboard, workDir string) (string, error) {
	log.Println("[voice] Generating narration for all scenes...")

	audioDir := filepath.Join(workDir, "audio")
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	var segments []string
	for i := range scenes {
		scene := &scenes[i]
		if Silent(scene.NarrationText) {
			log.Printf("[voice] Scene %d/%d: silent, skipping", i+1, len(scenes))
			continue
		}

		if len(segments) > 0 {
			if err := pace(ctx, config.Seconds(s.cfg.Voice.PaceDelaySec)); err != nil {
				return "", err
			}
		}

		text := textutil.CleanForTTS(scene.NarrationText)
		outFile := filepath.Join(audioDir, fmt.Sprintf("scene_%03d.mp3", i))
		log.Printf("[voice] Scene %d/%d: synthesizing...", i+1, len(scenes))

		if err := s.synth.Synthesize(ctx, text, s.cfg.Voice.VoiceID, outFile); err != nil {
			return "", fmt.Errorf("scene %d synthesis: %w", scene.Number, err)
		}

		dur, err := s.enc.ProbeDuration(ctx, outFile)
		if err != nil {
			return "", fmt.Errorf("scene %d duration probe: %w", scene.Number, err)
		}

		scene.AudioPath = outFile
		scene.AudioDuration = dur
		segments = append(segments, outFile)
		log.Printf("[voice] Scene %d: %.2fs → %s", scene.Number, dur, outFile)
	}

	if len(segments) == 0 {
		return "", fmt.Errorf("no audio segments were generated")
	}

	combined := filepath.Join(audioDir, "voiceover.mp3")
	if err := s.concat(ctx, segments, audioDir, combined); err != nil {
		return "", fmt.Errorf("concatenate audio: %w", err)
	}

	log.Printf("[voice] ✅ Combined narration: %s (%d segments)", combined, len(segments))
	return combined, nil
}

// concat joins the segments in scene order without re-encoding.
func (s *Stage) concat(ctx context.Context, segments []string, audioDir, outFile string) error {
	listFile := filepath.Join(audioDir, "concat_list.txt")
	var lines []string
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("file '%s'", seg))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return err
	}

	return s.enc.Run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outFile,
	)
}

// pace enforces the fixed inter-call delay toward the TTS collaborator.
func pace(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
