package voice

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"
)

// CommandSynthesizer shells out to an external TTS binary that accepts
//
//	<command> --text "..." --voice <id> --output path/to/file.mp3
//
// matching the contract of the tiktok-voice style CLI wrappers.
type CommandSynthesizer struct {
	Command     string
	Retries     int
	CallTimeout time.Duration
}

func NewCommandSynthesizer(command string, retries int, timeout time.Duration) (*CommandSynthesizer, error) {
	if command == "" {
		return nil, fmt.Errorf("no TTS engine configured: set voice.command in config.yaml or TTS_COMMAND in the environment")
	}
	if retries <= 0 {
		retries = 1
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CommandSynthesizer{Command: command, Retries: retries, CallTimeout: timeout}, nil
}

// Synthesize runs the TTS command, retrying with linear backoff. The
// retry policy lives here, on the collaborator side; the voice stage
// treats an exhausted retry budget as fatal.
func (c *CommandSynthesizer) Synthesize(ctx context.Context, text, voiceID, outFile string) error {
	var lastErr error
	for attempt := 1; attempt <= c.Retries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.CallTimeout)
		cmd := exec.CommandContext(callCtx, c.Command,
			"--text", text,
			"--voice", voiceID,
			"--output", outFile,
		)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		err := cmd.Run()
		cancel()
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("%s: %w\n%s", c.Command, err, stderr.String())
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == c.Retries {
			break
		}
		log.Printf("[voice] TTS attempt %d failed: %v — retrying...", attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}
	return lastErr
}
