// Package pipeline drives one compilation run through its ordered
// stages and guarantees working-directory cleanup on every exit path.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mikeoller82/youtube-shorts-generator/config"
	"github.com/mikeoller82/youtube-shorts-generator/encoder"
	"github.com/mikeoller82/youtube-shorts-generator/media"
	"github.com/mikeoller82/youtube-shorts-generator/reconcile"
	"github.com/mikeoller82/youtube-shorts-generator/subtitle"
	"github.com/mikeoller82/youtube-shorts-generator/types"
	"github.com/mikeoller82/youtube-shorts-generator/voice"
)

// Stage names the steps of the run state machine, in order.
type Stage string

const (
	StageInit      Stage = "init"
	StageVoice     Stage = "synthesize_voice"
	StageSubtitles Stage = "align_subtitles"
	StageReconcile Stage = "reconcile_durations"
	StageResolve   Stage = "resolve_scenes"
	StageManifest  Stage = "build_manifest"
	StageEncode    Stage = "encode"
	StageCleanup   Stage = "cleanup"
)

// StageError is the single structured failure a caller receives: the
// stage that failed and the underlying cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Compiler assembles one short video per Run call. Collaborator clients
// are constructed once and scoped to the compiler; each run owns its
// working directory exclusively.
type Compiler struct {
	cfg       *config.Config
	enc       encoder.Runner
	voice     *voice.Stage
	subtitles *subtitle.Stage
	resolver  *media.Resolver
}

func NewCompiler(cfg *config.Config, enc encoder.Runner, v *voice.Stage, s *subtitle.Stage, r *media.Resolver) *Compiler {
	return &Compiler{cfg: cfg, enc: enc, voice: v, subtitles: s, resolver: r}
}

// Run compiles a storyboard into the output file. On success the output
// file is the only artifact left on disk; on failure the caller gets a
// StageError and no partial artifacts.
func (c *Compiler) Run(ctx context.Context, scenes types.Storyboard, outputPath string) (err error) {
	if len(scenes) == 0 {
		return &StageError{StageInit, fmt.Errorf("empty storyboard")}
	}

	runID := uuid.NewString()[:8]
	workDir, mkErr := os.MkdirTemp("", "shorts-"+runID+"-")
	if mkErr != nil {
		return &StageError{StageInit, fmt.Errorf("create working dir: %w", mkErr)}
	}
	log.Printf("[pipeline] Run %s — working dir %s", runID, workDir)

	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Printf("[pipeline] Warning: could not remove working dir %s: %v", workDir, rmErr)
		}
		if err != nil {
			// Never leave a partial output behind.
			_ = os.Remove(outputPath)
		}
	}()

	var audioPath, srtPath string

	err = c.step(ctx, StageVoice, func() error {
		var stageErr error
		audioPath, stageErr = c.voice.Run(ctx, scenes, workDir)
		return stageErr
	})
	if err != nil {
		return err
	}

	err = c.step(ctx, StageSubtitles, func() error {
		var stageErr error
		srtPath, stageErr = c.subtitles.Run(ctx, scenes, audioPath, workDir)
		return stageErr
	})
	if err != nil {
		return err
	}

	err = c.step(ctx, StageReconcile, func() error {
		r := c.cfg.Reconcile
		reconcile.Adjust(scenes, r.DefaultDurationSec, r.FloorDurationSec, r.ToleranceSec)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.step(ctx, StageResolve, func() error {
		return c.resolver.Run(ctx, scenes, workDir)
	})
	if err != nil {
		return err
	}

	var manifest string
	err = c.step(ctx, StageManifest, func() error {
		var stageErr error
		manifest, stageErr = buildManifest(scenes, workDir)
		return stageErr
	})
	if err != nil {
		return err
	}

	err = c.step(ctx, StageEncode, func() error {
		return c.encode(ctx, manifest, audioPath, srtPath, outputPath)
	})
	if err != nil {
		return err
	}

	log.Printf("[pipeline] ✅ Run %s complete: %s", runID, outputPath)
	return nil
}

// step checks for cancellation between stages and wraps stage failures.
func (c *Compiler) step(ctx context.Context, stage Stage, fn func() error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &StageError{stage, ctxErr}
	}
	log.Printf("[pipeline] ━━━ %s ━━━", stage)
	if err := fn(); err != nil {
		return &StageError{stage, err}
	}
	return nil
}

// buildManifest writes the ordered clip list for the encoder's concat
// input. Every scene must carry a resolved clip by now.
func buildManifest(scenes types.Storyboard, workDir string) (string, error) {
	manifest := filepath.Join(workDir, "concat.txt")
	var lines []byte
	for _, scene := range scenes {
		if scene.ClipPath == "" {
			return "", fmt.Errorf("scene %d has no resolved clip", scene.Number)
		}
		lines = append(lines, fmt.Sprintf("file '%s'\n", scene.ClipPath)...)
	}
	if err := os.WriteFile(manifest, lines, 0644); err != nil {
		return "", err
	}
	return manifest, nil
}

// encode concatenates the clips, muxes the narration track, burns the
// subtitles with the fixed style and stops at the shorter stream.
// Success means the encoder exited cleanly and the output file exists.
func (c *Compiler) encode(ctx context.Context, manifest, audioPath, srtPath, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s := c.cfg.Subtitles
	subFilter := fmt.Sprintf(
		"subtitles='%s':force_style='FontSize=%d,Alignment=%d,PrimaryColour=%s,OutlineColour=%s,BorderStyle=%d'",
		escapeFilterPath(srtPath), s.FontSize, s.Alignment, s.PrimaryColor, s.OutlineColor, s.BorderStyle,
	)

	err := c.enc.Run(ctx,
		"-f", "concat", "-safe", "0", "-i", manifest,
		"-i", audioPath,
		"-r", fmt.Sprintf("%d", c.cfg.Video.FPS),
		"-vf", subFilter,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "libx264", "-preset", "ultrafast",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(outputPath); statErr != nil {
		return fmt.Errorf("encoder exited cleanly but output file is missing: %w", statErr)
	}
	return nil
}

func escapeFilterPath(path string) string {
	out := make([]rune, 0, len(path))
	for _, r := range path {
		if r == ':' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
