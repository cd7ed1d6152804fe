package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Video      VideoConfig      `yaml:"video"`
	Subtitles  SubtitlesConfig  `yaml:"subtitles"`
	Fallback   FallbackConfig   `yaml:"fallback"`
	Reconcile  ReconcileConfig  `yaml:"reconcile"`
	Voice      VoiceConfig      `yaml:"voice"`
	Align      AlignConfig      `yaml:"align"`
	Media      MediaConfig      `yaml:"media"`
	ImageGen   ImageGenConfig   `yaml:"image_gen"`
	Completion CompletionConfig `yaml:"completion"`
	Search     SearchConfig     `yaml:"search"`
	Upload     UploadConfig     `yaml:"upload"`
	Paths      PathsConfig      `yaml:"paths"`
}

type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type SubtitlesConfig struct {
	FontSize     int    `yaml:"font_size"`
	Alignment    int    `yaml:"alignment"`
	PrimaryColor string `yaml:"primary_color"`
	OutlineColor string `yaml:"outline_color"`
	BorderStyle  int    `yaml:"border_style"`
}

type FallbackConfig struct {
	Color          string `yaml:"color"`
	TextColor      string `yaml:"text_color"`
	BoxColor       string `yaml:"box_color"`
	BoxBorderWidth int    `yaml:"box_border_width"`
	FontSize       int    `yaml:"font_size"`
	FontFile       string `yaml:"font_file"`
	WrapWidth      int    `yaml:"wrap_width"`
}

type ReconcileConfig struct {
	ToleranceSec       float64 `yaml:"tolerance_sec"`
	DefaultDurationSec float64 `yaml:"default_duration_sec"`
	FloorDurationSec   float64 `yaml:"floor_duration_sec"`
}

type VoiceConfig struct {
	Command        string  `yaml:"command"`
	VoiceID        string  `yaml:"voice_id"`
	Retries        int     `yaml:"retries"`
	PaceDelaySec   float64 `yaml:"pace_delay_sec"`
	CallTimeoutSec float64 `yaml:"call_timeout_sec"`
}

type AlignConfig struct {
	Endpoint   string  `yaml:"endpoint"`
	TimeoutSec float64 `yaml:"timeout_sec"`
}

type MediaConfig struct {
	Workers        int     `yaml:"workers"`
	PaceDelaySec   float64 `yaml:"pace_delay_sec"`
	CallTimeoutSec float64 `yaml:"call_timeout_sec"`
}

type ImageGenConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	Model        string  `yaml:"model"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Steps        int     `yaml:"steps"`
	PaceDelaySec float64 `yaml:"pace_delay_sec"`
	TimeoutSec   float64 `yaml:"timeout_sec"`
}

type CompletionConfig struct {
	Endpoint        string  `yaml:"endpoint"`
	ResearchModel   string  `yaml:"research_model"`
	TitleModel      string  `yaml:"title_model"`
	SelectModel     string  `yaml:"select_model"`
	DescModel       string  `yaml:"desc_model"`
	HashtagModel    string  `yaml:"hashtag_model"`
	ScriptModel     string  `yaml:"script_model"`
	StoryboardModel string  `yaml:"storyboard_model"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

type SearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	NumResults int    `yaml:"num_results"`
}

type UploadConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Logs   string `yaml:"logs"`
}

// Seconds converts a config seconds value to a time.Duration.
func Seconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// Default returns the configuration matching the original pipeline's
// fixed parameters. Load layers config.yaml on top of it.
func Default() *Config {
	return &Config{
		Video: VideoConfig{Width: 1080, Height: 1920, FPS: 30},
		Subtitles: SubtitlesConfig{
			FontSize:     12,
			Alignment:    2,
			PrimaryColor: "&H8000FFFF",
			OutlineColor: "&H40000000",
			BorderStyle:  3,
		},
		Fallback: FallbackConfig{
			Color:          "red",
			TextColor:      "yellow@0.5",
			BoxColor:       "black@0.5",
			BoxBorderWidth: 5,
			FontSize:       30,
			WrapWidth:      40,
		},
		Reconcile: ReconcileConfig{
			ToleranceSec:       0.1,
			DefaultDurationSec: 1.0,
			FloorDurationSec:   0.5,
		},
		Voice: VoiceConfig{
			VoiceID:        "en_uk_003",
			Retries:        3,
			PaceDelaySec:   1,
			CallTimeoutSec: 60,
		},
		Align: AlignConfig{
			Endpoint:   "http://localhost:8765/transcriptions?async=false",
			TimeoutSec: 120,
		},
		Media: MediaConfig{
			Workers:        3,
			PaceDelaySec:   1,
			CallTimeoutSec: 120,
		},
		ImageGen: ImageGenConfig{
			Endpoint:     "https://api.together.xyz/v1/images/generations",
			Model:        "black-forest-labs/FLUX.1-schnell-Free",
			Width:        768,
			Height:       1024,
			Steps:        4,
			PaceDelaySec: 2,
			TimeoutSec:   60,
		},
		Completion: CompletionConfig{
			Endpoint:        "https://api.groq.com/openai/v1/chat/completions",
			ResearchModel:   "llama-3.1-70b-versatile",
			TitleModel:      "llama-3.1-70b-versatile",
			SelectModel:     "llama-3.1-8b-instant",
			DescModel:       "gemma2-9b-it",
			HashtagModel:    "llama-3.1-8b-instant",
			ScriptModel:     "gemma2-9b-it",
			StoryboardModel: "llama-3.1-70b-versatile",
			Temperature:     0.7,
			MaxTokens:       2048,
		},
		Search: SearchConfig{
			Endpoint:   "https://api.tavily.com/search",
			NumResults: 100,
		},
		Upload: UploadConfig{
			Visibility: "private",
			CategoryID: "24",
		},
		Paths: PathsConfig{Output: "output", Logs: "logs"},
	}
}

// Load reads a yaml config file layered over Default. A missing file is
// not an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
