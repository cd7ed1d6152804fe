// Package encoder wraps the external audio/video toolchain. Every
// invocation has a bounded timeout and returns captured diagnostics on
// failure.
package encoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Runner is the toolchain surface the pipeline stages depend on. Tests
// substitute a fake; production uses FFmpeg.
type Runner interface {
	Run(ctx context.Context, args ...string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// FFmpeg invokes ffmpeg and its companion ffprobe as subprocesses.
type FFmpeg struct {
	Bin      string
	ProbeBin string
	Timeout  time.Duration
}

func New(timeout time.Duration) *FFmpeg {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &FFmpeg{Bin: "ffmpeg", ProbeBin: "ffprobe", Timeout: timeout}
}

// Run executes one ffmpeg invocation. "-y" is always passed so reruns
// overwrite stale outputs.
func (f *FFmpeg) Run(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	full := append([]string{"-y"}, args...)
	cmd := exec.CommandContext(ctx, f.Bin, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w\n%s", f.Bin, err, tail(stderr.String(), 2000))
	}
	return nil
}

// ProbeDuration reports a container's duration in seconds.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ProbeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return 0, fmt.Errorf("%s %s: %w\n%s", f.ProbeBin, path, err, tail(string(exitErr.Stderr), 2000))
		}
		return 0, fmt.Errorf("%s %s: %w", f.ProbeBin, path, err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration of %s: %w", path, err)
	}
	return dur, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
