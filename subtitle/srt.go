package subtitle

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikeoller82/youtube-shorts-generator/textutil"
	"github.com/mikeoller82/youtube-shorts-generator/types"
	"github.com/mikeoller82/youtube-shorts-generator/voice"
)

// Stage produces the subtitle file for one compilation run.
type Stage struct {
	aligner Aligner
}

func New(aligner Aligner) *Stage {
	return &Stage{aligner: aligner}
}

// Run writes the narration transcript, sends it with the combined audio
// to the alignment collaborator and emits a word-per-cue SRT file.
func (s *Stage) Run(ctx context.Context, scenes types.Storyboard, audioPath, workDir string) (string, error) {
	log.Println("[subtitle] Aligning narration for subtitles...")

	transcript := BuildTranscript(scenes)
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("no narration text to align")
	}

	transcriptPath := filepath.Join(workDir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	alignment, err := s.aligner.Align(ctx, audioPath, transcriptPath)
	if err != nil {
		return "", fmt.Errorf("forced alignment: %w", err)
	}

	srtPath := filepath.Join(workDir, "subtitles.srt")
	if err := WriteSRT(CuesFromAlignment(alignment), srtPath); err != nil {
		return "", fmt.Errorf("write subtitles: %w", err)
	}

	log.Printf("[subtitle] ✅ %d cue(s) written to %s", len(alignment.Words), srtPath)
	return srtPath, nil
}

// BuildTranscript joins all non-silent scene narrations in order,
// space-separated. Silent scenes contribute nothing.
func BuildTranscript(scenes types.Storyboard) string {
	var parts []string
	for _, scene := range scenes {
		text := strings.TrimSpace(strings.ReplaceAll(scene.NarrationText, "\n", " "))
		if voice.Silent(text) {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// CuesFromAlignment turns word-level alignment into subtitle cues, one
// caption per aligned word spanning its own start/end.
func CuesFromAlignment(alignment *types.Alignment) []types.SubtitleCue {
	cues := make([]types.SubtitleCue, 0, len(alignment.Words))
	for i, w := range alignment.Words {
		cues = append(cues, types.SubtitleCue{
			Index: i + 1,
			Start: w.Start,
			End:   w.End,
			Text:  w.Word,
		})
	}
	return cues
}

// WriteSRT renders cues in SubRip format.
func WriteSRT(cues []types.SubtitleCue, path string) error {
	var sb strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			cue.Index,
			textutil.FormatTime(cue.Start),
			textutil.FormatTime(cue.End),
			cue.Text,
		)
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
