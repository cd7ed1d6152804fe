package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mikeoller82/youtube-shorts-generator/config"
)

// ImageGenClient asks the image-generation collaborator for a still
// image and decodes the base64 response. Calls are paced with a fixed
// delay to respect the collaborator's rate limit.
type ImageGenClient struct {
	cfg      config.ImageGenConfig
	apiKey   string
	client   *http.Client
	lastCall time.Time
}

func NewImageGenClient(cfg config.ImageGenConfig, apiKey string) *ImageGenClient {
	return &ImageGenClient{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{Timeout: config.Seconds(cfg.TimeoutSec)},
	}
}

type imageGenRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Steps          int    `json:"steps"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageGenResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *ImageGenClient) Generate(ctx context.Context, prompt, outFile string) error {
	if err := g.pace(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(imageGenRequest{
		Model:          g.cfg.Model,
		Prompt:         prompt,
		Width:          g.cfg.Width,
		Height:         g.cfg.Height,
		Steps:          g.cfg.Steps,
		N:              1,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("image generation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("image generation: HTTP %d: %s", resp.StatusCode, msg)
	}

	var parsed imageGenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("parse image response: %w", err)
	}
	if parsed.Error != nil {
		return fmt.Errorf("image generation: %s", parsed.Error.Message)
	}
	if len(parsed.Data) == 0 {
		return fmt.Errorf("image generation returned no images")
	}

	raw, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	return os.WriteFile(outFile, raw, 0644)
}

func (g *ImageGenClient) pace(ctx context.Context) error {
	delay := config.Seconds(g.cfg.PaceDelaySec)
	if delay <= 0 {
		return nil
	}
	wait := delay - time.Since(g.lastCall)
	if wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	g.lastCall = time.Now()
	return nil
}
