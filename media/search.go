package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/mikeoller82/youtube-shorts-generator/relevance"
	"github.com/mikeoller82/youtube-shorts-generator/types"
)

// Searcher is the media-search collaborator contract.
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]types.MediaCandidate, error)
}

// HTTPSearcher queries a JSON search endpoint for stock footage
// candidates.
type HTTPSearcher struct {
	endpoint   string
	apiKey     string
	numResults int
	client     *http.Client
}

func NewHTTPSearcher(endpoint, apiKey string, numResults int, timeout time.Duration) *HTTPSearcher {
	return &HTTPSearcher{
		endpoint:   endpoint,
		apiKey:     apiKey,
		numResults: numResults,
		client:     &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

type searchResponse struct {
	Results []types.MediaCandidate `json:"results"`
}

func (s *HTTPSearcher) Search(ctx context.Context, keyword string) ([]types.MediaCandidate, error) {
	body, err := json.Marshal(searchRequest{APIKey: s.apiKey, Query: keyword, NumResults: s.numResults})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("media search: HTTP %d: %s", resp.StatusCode, msg)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return parsed.Results, nil
}

// Fetcher ranks search candidates with the relevance scorer and
// downloads the winner.
type Fetcher struct {
	searcher Searcher
	scorer   *relevance.Scorer
	client   *http.Client
	retries  int
}

func NewFetcher(searcher Searcher, scorer *relevance.Scorer, timeout time.Duration) *Fetcher {
	return &Fetcher{
		searcher: searcher,
		scorer:   scorer,
		client:   &http.Client{Timeout: timeout},
		retries:  3,
	}
}

// FetchBest searches for the keyword, scores every candidate against
// the scene description at the given narration timestamp and downloads
// the highest-scoring asset. Ties keep input order (stable sort).
func (f *Fetcher) FetchBest(ctx context.Context, keyword, description string, timestamp float64, outFile string) error {
	candidates, err := f.searcher.Search(ctx, keyword)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates for keyword %q", keyword)
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = f.scorer.Score(c, description, timestamp)
	}
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var lastErr error
	for _, i := range order {
		c := candidates[i]
		if c.URL == "" {
			continue
		}
		if err := f.download(ctx, c.URL, outFile); err != nil {
			lastErr = err
			log.Printf("[media] candidate %q download failed: %v", c.Title, err)
			continue
		}
		log.Printf("[media] picked %q (score %.3f) for keyword %q", c.Title, scores[i], keyword)
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no downloadable candidate for keyword %q", keyword)
	}
	return lastErr
}

func (f *Fetcher) download(ctx context.Context, url, outFile string) error {
	var lastErr error
	for attempt := 1; attempt <= f.retries; attempt++ {
		if err := f.downloadOnce(ctx, url, outFile); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("download failed after %d attempts: %w", f.retries, lastErr)
}

func (f *Fetcher) downloadOnce(ctx context.Context, url, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
