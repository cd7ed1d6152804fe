package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikeoller82/youtube-shorts-generator/config"
	"github.com/mikeoller82/youtube-shorts-generator/types"
)

type scriptedRunner struct {
	mu      sync.Mutex
	runs    [][]string
	failOn  string // fail any Run whose args mention this substring
	failAll bool
}

func (r *scriptedRunner) Run(_ context.Context, args ...string) error {
	r.mu.Lock()
	r.runs = append(r.runs, args)
	r.mu.Unlock()
	if r.failAll {
		return fmt.Errorf("encoder failure")
	}
	if r.failOn != "" {
		for _, a := range args {
			if strings.Contains(a, r.failOn) {
				return fmt.Errorf("encoder failure on %s", a)
			}
		}
	}
	return nil
}

func (r *scriptedRunner) ProbeDuration(context.Context, string) (float64, error) {
	return 0, fmt.Errorf("not used")
}

func (r *scriptedRunner) argsContaining(substr string) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out [][]string
	for _, run := range r.runs {
		for _, a := range run {
			if strings.Contains(a, substr) {
				out = append(out, run)
				break
			}
		}
	}
	return out
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolverBranchSelection(t *testing.T) {
	dir := t.TempDir()
	image := touch(t, dir, "gen.png")
	video := touch(t, dir, "stock.mp4")

	scenes := types.Storyboard{
		{Number: 1, AdjustedDuration: 2, ImagePath: image},                  // opening: zoom effect
		{Number: 2, AdjustedDuration: 2, VideoPath: video},                  // video branch
		{Number: 3, AdjustedDuration: 2, ImagePath: image},                  // still image branch
		{Number: 4, AdjustedDuration: 2, NarrationText: "no sources here"},  // fallback card
		{Number: 5, AdjustedDuration: 2, ImagePath: image, VideoPath: video}, // video wins over image
	}

	enc := &scriptedRunner{}
	r := NewResolver(config.Default(), enc, nil, nil)
	if err := r.Run(context.Background(), scenes, t.TempDir()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, s := range scenes {
		if s.ClipPath == "" {
			t.Errorf("scene %d has no clip path", i+1)
		}
	}

	if got := enc.argsContaining("zoompan"); len(got) != 1 {
		t.Errorf("zoom branch ran %d times, want 1", len(got))
	}
	if got := enc.argsContaining("lavfi"); len(got) != 1 {
		t.Errorf("fallback branch ran %d times, want 1", len(got))
	}
	// scenes 2 and 5 take the video branch, scene 3 the still branch;
	// all three use the scale+crop filter
	if got := enc.argsContaining("force_original_aspect_ratio"); len(got) != 3 {
		t.Errorf("scale+crop ran %d times, want 3", len(got))
	}
}

func TestResolverEncoderFailureDegradesToFallback(t *testing.T) {
	dir := t.TempDir()
	video := touch(t, dir, "stock.mp4")

	scenes := types.Storyboard{
		{Number: 1, AdjustedDuration: 2, VideoPath: video, NarrationText: "some text"},
	}

	enc := &scriptedRunner{failOn: "stock.mp4"}
	r := NewResolver(config.Default(), enc, nil, nil)
	if err := r.Run(context.Background(), scenes, t.TempDir()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if scenes[0].ClipPath == "" {
		t.Fatal("scene has no clip path after degraded branch")
	}
	if got := enc.argsContaining("lavfi"); len(got) != 1 {
		t.Errorf("fallback ran %d times, want 1", len(got))
	}
}

func TestResolverFallbackFailureIsFatal(t *testing.T) {
	scenes := types.Storyboard{
		{Number: 1, AdjustedDuration: 2, NarrationText: "text"},
	}
	enc := &scriptedRunner{failAll: true}
	r := NewResolver(config.Default(), enc, nil, nil)
	if err := r.Run(context.Background(), scenes, t.TempDir()); err == nil {
		t.Fatal("expected error when the fallback card cannot be rendered")
	}
}

func TestResolverRejectsNonPositiveDuration(t *testing.T) {
	scenes := types.Storyboard{{Number: 1}}
	r := NewResolver(config.Default(), &scriptedRunner{}, nil, nil)
	if err := r.Run(context.Background(), scenes, t.TempDir()); err == nil {
		t.Fatal("expected error for zero adjusted duration")
	}
}

func TestResolverWritesWrappedCardText(t *testing.T) {
	workDir := t.TempDir()
	long := strings.Repeat("word ", 30)
	scenes := types.Storyboard{
		{Number: 1, AdjustedDuration: 2, NarrationText: strings.TrimSpace(long)},
	}

	r := NewResolver(config.Default(), &scriptedRunner{}, nil, nil)
	if err := r.Run(context.Background(), scenes, workDir); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(workDir, "visuals", "card_000.txt"))
	if err != nil {
		t.Fatalf("card text missing: %v", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if len(line) > config.Default().Fallback.WrapWidth+1 {
			t.Errorf("card line exceeds wrap width: %q", line)
		}
	}
	if !strings.Contains(string(data), "\n") {
		t.Error("long card text was not wrapped")
	}
}

type timingFetcher struct {
	calls []time.Time
}

func (f *timingFetcher) FetchBest(_ context.Context, _, _ string, _ float64, outFile string) error {
	f.calls = append(f.calls, time.Now())
	return os.WriteFile(outFile, []byte("x"), 0644)
}

func TestResolverPacesMediaSearchCalls(t *testing.T) {
	cfg := config.Default()
	cfg.Media.PaceDelaySec = 0.05

	fetcher := &timingFetcher{}
	scenes := types.Storyboard{
		{Number: 1, AdjustedDuration: 2, VideoKeyword: "storm"},
		{Number: 2, AdjustedDuration: 2, VideoKeyword: "sunrise"},
		{Number: 3, AdjustedDuration: 2, VideoKeyword: "city"},
	}

	r := NewResolver(cfg, &scriptedRunner{}, nil, fetcher)
	if err := r.Run(context.Background(), scenes, t.TempDir()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(fetcher.calls) != 3 {
		t.Fatalf("fetcher called %d times, want 3", len(fetcher.calls))
	}
	minGap := config.Seconds(cfg.Media.PaceDelaySec) - 10*time.Millisecond
	for i := 1; i < len(fetcher.calls); i++ {
		if gap := fetcher.calls[i].Sub(fetcher.calls[i-1]); gap < minGap {
			t.Errorf("search calls %d and %d only %v apart, want at least %v",
				i, i+1, gap, minGap)
		}
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath(`C:\tmp\card.txt`)
	if got != `C\:/tmp/card.txt` {
		t.Errorf("escapeFilterPath = %q", got)
	}
}
