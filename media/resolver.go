// Package media resolves every scene to a normalized visual clip:
// effect-processed generated image, fetched video, static image, or a
// synthetic fallback card.
package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikeoller82/youtube-shorts-generator/config"
	"github.com/mikeoller82/youtube-shorts-generator/encoder"
	"github.com/mikeoller82/youtube-shorts-generator/textutil"
	"github.com/mikeoller82/youtube-shorts-generator/types"
)

// Resolver normalizes per-scene visuals. Image and video sources are
// optional collaborators; without them every scene degrades through the
// static-image and fallback-card branches.
type Resolver struct {
	cfg    *config.Config
	enc    encoder.Runner
	images ImageGenerator
	videos VideoFetcher
}

// ImageGenerator produces a still image for a scene prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, outFile string) error
}

// VideoFetcher finds and downloads the best-matching stock clip for a
// keyword, judged at a timestamp within the narration.
type VideoFetcher interface {
	FetchBest(ctx context.Context, keyword, description string, timestamp float64, outFile string) error
}

func NewResolver(cfg *config.Config, enc encoder.Runner, images ImageGenerator, videos VideoFetcher) *Resolver {
	return &Resolver{cfg: cfg, enc: enc, images: images, videos: videos}
}

// Run acquires candidate sources for each scene, then normalizes every
// scene to a clip at the target resolution, frame rate and pixel
// format. Scene order is preserved for the manifest regardless of
// completion order; a single scene's failure degrades to a fallback
// card and never aborts the run.
func (r *Resolver) Run(ctx context.Context, scenes types.Storyboard, workDir string) error {
	visualDir := filepath.Join(workDir, "visuals")
	if err := os.MkdirAll(visualDir, 0755); err != nil {
		return fmt.Errorf("create visuals dir: %w", err)
	}

	r.acquireSources(ctx, scenes, visualDir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Media.Workers)
	for i := range scenes {
		scene := &scenes[i]
		idx := i
		g.Go(func() error {
			clip, err := r.resolveScene(gctx, scene, idx, visualDir)
			if err != nil {
				return fmt.Errorf("scene %d: %w", scene.Number, err)
			}
			scene.ClipPath = clip
			return nil
		})
	}
	return g.Wait()
}

// acquireSources fills ImagePath/VideoPath best-effort, paced to
// respect collaborator quotas. Failures here only narrow the branch
// choice later.
func (r *Resolver) acquireSources(ctx context.Context, scenes types.Storyboard, visualDir string) {
	var elapsed float64
	searches := 0
	for i := range scenes {
		scene := &scenes[i]
		start := elapsed
		elapsed += scene.AdjustedDuration

		if r.videos != nil && scene.VideoPath == "" && scene.VideoKeyword != "" {
			if searches > 0 {
				if err := pace(ctx, config.Seconds(r.cfg.Media.PaceDelaySec)); err != nil {
					return
				}
			}
			searches++
			out := filepath.Join(visualDir, fmt.Sprintf("source_%03d.mp4", i))
			if err := r.videos.FetchBest(ctx, scene.VideoKeyword, scene.Visual, start, out); err != nil {
				log.Printf("[media] Warning scene %d: video search failed: %v", scene.Number, err)
			} else {
				scene.VideoPath = out
			}
		}

		if r.images != nil && scene.ImagePath == "" {
			prompt := imagePrompt(scene)
			out := filepath.Join(visualDir, fmt.Sprintf("generated_%03d.png", i))
			if err := r.images.Generate(ctx, prompt, out); err != nil {
				log.Printf("[media] Warning scene %d: image generation failed: %v", scene.Number, err)
			} else {
				scene.ImagePath = out
			}
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func imagePrompt(scene *types.Scene) string {
	return fmt.Sprintf("Create a image that will go viral on youtube based on the following scene description:\n%s,%s",
		scene.Visual, scene.ImageKeyword)
}

// resolveScene walks the branch priority for one scene. Encoder errors
// in branches 1–3 fall through to the fallback card.
func (r *Resolver) resolveScene(ctx context.Context, scene *types.Scene, idx int, visualDir string) (string, error) {
	duration := scene.AdjustedDuration
	if duration <= 0 {
		return "", fmt.Errorf("invalid adjusted duration %.3f", duration)
	}
	outFile := filepath.Join(visualDir, fmt.Sprintf("clip_%03d.mp4", idx))

	switch {
	case idx == 0 && fileExists(scene.ImagePath):
		if err := r.zoomImageClip(ctx, scene.ImagePath, duration, outFile); err == nil {
			return outFile, nil
		} else {
			log.Printf("[media] Warning scene %d: zoom effect failed: %v — using fallback card", scene.Number, err)
		}
	case fileExists(scene.VideoPath):
		if err := r.videoClip(ctx, scene.VideoPath, duration, outFile); err == nil {
			return outFile, nil
		} else {
			log.Printf("[media] Warning scene %d: video prep failed: %v — using fallback card", scene.Number, err)
		}
	case fileExists(scene.ImagePath):
		if err := r.stillImageClip(ctx, scene.ImagePath, duration, outFile); err == nil {
			return outFile, nil
		} else {
			log.Printf("[media] Warning scene %d: still image prep failed: %v — using fallback card", scene.Number, err)
		}
	}

	if err := r.fallbackClip(ctx, scene, duration, idx, visualDir, outFile); err != nil {
		return "", fmt.Errorf("fallback card: %w", err)
	}
	return outFile, nil
}

// zoomImageClip applies a continuous slow zoom over a generated still.
func (r *Resolver) zoomImageClip(ctx context.Context, imagePath string, duration float64, outFile string) error {
	v := r.cfg.Video
	frames := int(duration * float64(v.FPS))
	filter := fmt.Sprintf("zoompan=z='min(zoom+0.0015,1.5)':d=%d:s=%dx%d", frames, v.Width, v.Height)
	return r.enc.Run(ctx,
		"-loop", "1",
		"-i", imagePath,
		"-t", fmt.Sprintf("%.3f", duration),
		"-filter_complex", filter,
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", v.FPS),
		"-an",
		outFile,
	)
}

// videoClip trims, scales and center-crops a fetched video, dropping
// its original audio.
func (r *Resolver) videoClip(ctx context.Context, videoPath string, duration float64, outFile string) error {
	return r.enc.Run(ctx,
		"-i", videoPath,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", r.scaleCropFilter(),
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", r.cfg.Video.FPS),
		"-an",
		outFile,
	)
}

// stillImageClip renders a static image for the scene duration.
func (r *Resolver) stillImageClip(ctx context.Context, imagePath string, duration float64, outFile string) error {
	return r.enc.Run(ctx,
		"-loop", "1",
		"-i", imagePath,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", r.scaleCropFilter(),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", r.cfg.Video.FPS),
		"-an",
		outFile,
	)
}

// fallbackClip synthesizes a text card: solid background with the
// scene's narration centered in a bordered box.
func (r *Resolver) fallbackClip(ctx context.Context, scene *types.Scene, duration float64, idx int, visualDir, outFile string) error {
	f := r.cfg.Fallback
	v := r.cfg.Video

	text := strings.TrimSpace(scene.NarrationText)
	if text == "" {
		text = scene.Visual
	}
	wrapped := strings.ReplaceAll(textutil.WrapText(text, f.WrapWidth), `\N`, "\n")
	textFile := filepath.Join(visualDir, fmt.Sprintf("card_%03d.txt", idx))
	if err := os.WriteFile(textFile, []byte(wrapped), 0644); err != nil {
		return err
	}

	drawtext := fmt.Sprintf(
		"drawtext=textfile=%s:fontsize=%d:fontcolor=%s:box=1:boxcolor=%s:boxborderw=%d:x=(w-tw)/2:y=(h-th)/2",
		escapeFilterPath(textFile), f.FontSize, f.TextColor, f.BoxColor, f.BoxBorderWidth,
	)
	if f.FontFile != "" {
		drawtext += ":fontfile=" + escapeFilterPath(f.FontFile)
	}

	return r.enc.Run(ctx,
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=%.3f", f.Color, v.Width, v.Height, duration),
		"-vf", drawtext,
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", v.FPS),
		"-an",
		outFile,
	)
}

func (r *Resolver) scaleCropFilter() string {
	v := r.cfg.Video
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		v.Width, v.Height, v.Width, v.Height)
}

// pace enforces the fixed inter-call delay toward the media-search
// collaborator.
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

func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, ":", "\\:")
	return path
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
