// Package subtitle builds the narration transcript, requests forced
// alignment and emits word-level subtitle cues.
package subtitle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/mikeoller82/youtube-shorts-generator/types"
)

// Aligner is the forced-alignment collaborator contract.
type Aligner interface {
	Align(ctx context.Context, audioPath, transcriptPath string) (*types.Alignment, error)
}

// GentleAligner talks to a Gentle-compatible alignment server over a
// local network endpoint. Failures are not retried here; callers may
// retry the whole compilation.
type GentleAligner struct {
	endpoint string
	client   *http.Client
}

func NewGentleAligner(endpoint string, timeout time.Duration) *GentleAligner {
	return &GentleAligner{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type gentleWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type gentleResponse struct {
	Words []gentleWord `json:"words"`
}

// Align posts the audio and transcript as a multipart request and
// returns the word-level timestamps. Words Gentle could not place in
// the audio are dropped.
func (g *GentleAligner) Align(ctx context.Context, audioPath, transcriptPath string) (*types.Alignment, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := attachFile(writer, "audio", audioPath); err != nil {
		return nil, err
	}
	if err := attachFile(writer, "transcript", transcriptPath); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alignment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("alignment server: HTTP %d: %s", resp.StatusCode, msg)
	}

	var parsed gentleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse alignment response: %w", err)
	}

	alignment := &types.Alignment{}
	for _, w := range parsed.Words {
		if w.Start == nil || w.End == nil {
			continue
		}
		alignment.Words = append(alignment.Words, types.WordStamp{
			Word:  w.Word,
			Start: *w.Start,
			End:   *w.End,
		})
	}
	return alignment, nil
}

func attachFile(writer *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := writer.CreateFormFile(field, field)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
