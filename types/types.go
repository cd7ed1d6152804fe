package types

// Scene is one narrated/visual unit of the output video.
// The parser creates it, the keyword enhancer, voice stage, reconciler and
// media resolver fill it in, and the render stage consumes it.
type Scene struct {
	Number        int     `json:"number"`
	Visual        string  `json:"visual"`
	NarrationText string  `json:"narration_text"`
	VideoKeyword  string  `json:"video_keyword"`
	ImageKeyword  string  `json:"image_keyword"`

	// Candidate visual sources, filled by image generation / media search.
	ImagePath string `json:"image_path,omitempty"`
	VideoPath string `json:"video_path,omitempty"`

	// Normalized per-scene clip, filled by the media resolver.
	ClipPath string `json:"clip_path,omitempty"`

	AudioPath        string  `json:"audio_path,omitempty"`
	AudioDuration    float64 `json:"audio_duration,omitempty"`
	AdjustedDuration float64 `json:"adjusted_duration,omitempty"`
}

// Storyboard is the ordered scene sequence. Order governs playback,
// not the numeric scene labels.
type Storyboard []Scene

// WordStamp is one aligned word with its timestamps in seconds.
type WordStamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Alignment is the word-level result of forced alignment.
type Alignment struct {
	Words []WordStamp `json:"words"`
}

// SubtitleCue is one caption entry in the target subtitle format.
type SubtitleCue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// TimedText is one time-coded entry of a candidate's subtitle or
// audio-transcript track. Start/End are clock strings ("HH:MM:SS",
// "MM:SS" or bare seconds).
type TimedText struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Text  string `json:"text"`
}

// MediaCandidate is one asset returned by the media search collaborator.
type MediaCandidate struct {
	URL             string      `json:"url"`
	Title           string      `json:"title"`
	Tags            []string    `json:"tags"`
	Subtitles       []TimedText `json:"subtitles,omitempty"`
	AudioTranscript []TimedText `json:"audio_transcript,omitempty"`
}

// VideoMetadata holds upload metadata produced by the content agents.
type VideoMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
	Visibility  string   `json:"visibility"`
}

// PipelineState tracks the full state of one compilation run.
type PipelineState struct {
	RunID       string         `json:"run_id"`
	StartedAt   string         `json:"started_at"`
	CompletedAt string         `json:"completed_at"`
	Topic       string         `json:"topic,omitempty"`
	Storyboard  Storyboard     `json:"storyboard,omitempty"`
	AudioFile   string         `json:"audio_file,omitempty"`
	VideoFile   string         `json:"video_file,omitempty"`
	Metadata    *VideoMetadata `json:"metadata,omitempty"`
	YouTubeURL  string         `json:"youtube_url,omitempty"`
	Error       string         `json:"error,omitempty"`
}
