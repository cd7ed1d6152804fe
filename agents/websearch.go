package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// WebSearchTool queries the web-search collaborator for recent results
// on a topic, optionally restricted to a time period.
type WebSearchTool struct {
	endpoint   string
	apiKey     string
	numResults int
	client     *http.Client
}

func NewWebSearchTool(endpoint, apiKey string, numResults int, timeout time.Duration) *WebSearchTool {
	return &WebSearchTool{
		endpoint:   endpoint,
		apiKey:     apiKey,
		numResults: numResults,
		client:     &http.Client{Timeout: timeout},
	}
}

// SearchResult is one organic result from the search collaborator.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type webSearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
	FromDate   string `json:"from_date,omitempty"`
}

type webSearchResponse struct {
	OrganicResults []SearchResult `json:"organic_results"`
}

// Search runs one query. timePeriod accepts "all", "past week",
// "past month", "past year" or "<n> days"; anything else falls back to
// "all" with a warning.
func (w *WebSearchTool) Search(ctx context.Context, query, timePeriod string) ([]SearchResult, error) {
	req := webSearchRequest{APIKey: w.apiKey, Query: query, NumResults: w.numResults}
	if from := fromDate(timePeriod, time.Now()); from != "" {
		req.FromDate = from
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("web search: HTTP %d: %s", resp.StatusCode, msg)
	}

	var parsed webSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return parsed.OrganicResults, nil
}

// fromDate translates a human time period into a YYYY-MM-DD lower
// bound, or "" for unrestricted search.
func fromDate(timePeriod string, now time.Time) string {
	period := strings.ToLower(strings.TrimSpace(timePeriod))
	switch period {
	case "", "all":
		return ""
	case "past week":
		return now.AddDate(0, 0, -7).Format("2006-01-02")
	case "past month":
		return now.AddDate(0, 0, -30).Format("2006-01-02")
	case "past year":
		return now.AddDate(0, 0, -365).Format("2006-01-02")
	}

	if fields := strings.Fields(period); len(fields) > 0 {
		if days, err := strconv.Atoi(fields[0]); err == nil && days > 0 {
			return now.AddDate(0, 0, -days).Format("2006-01-02")
		}
	}

	log.Printf("[agents] Warning: invalid time period %q — searching all time", timePeriod)
	return ""
}
