package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikeoller82/youtube-shorts-generator/relevance"
	"github.com/mikeoller82/youtube-shorts-generator/types"
)

type stubSearcher struct {
	candidates []types.MediaCandidate
	err        error
}

func (s *stubSearcher) Search(context.Context, string) ([]types.MediaCandidate, error) {
	return s.candidates, s.err
}

func newFetcherForTest(t *testing.T, s Searcher) *Fetcher {
	t.Helper()
	scorer, err := relevance.NewScorer()
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return NewFetcher(s, scorer, 5*time.Second)
}

func TestFetchBestPicksHighestScore(t *testing.T) {
	var served string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = r.URL.Path
		w.Write([]byte("video bytes"))
	}))
	defer server.Close()

	searcher := &stubSearcher{candidates: []types.MediaCandidate{
		{URL: server.URL + "/weak", Title: "city traffic at night"},
		{URL: server.URL + "/strong", Title: "thunderstorm over the ocean"},
	}}

	out := filepath.Join(t.TempDir(), "out.mp4")
	f := newFetcherForTest(t, searcher)
	if err := f.FetchBest(context.Background(), "storm", "thunderstorm ocean waves", 0, out); err != nil {
		t.Fatalf("FetchBest: %v", err)
	}

	if served != "/strong" {
		t.Errorf("downloaded %q, want /strong", served)
	}
	if data, err := os.ReadFile(out); err != nil || string(data) != "video bytes" {
		t.Errorf("output file = %q, %v", data, err)
	}
}

func TestFetchBestFallsThroughFailedDownloads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/best" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	searcher := &stubSearcher{candidates: []types.MediaCandidate{
		{URL: server.URL + "/best", Title: "thunderstorm over the ocean"},
		{URL: server.URL + "/second", Title: "city traffic"},
	}}

	out := filepath.Join(t.TempDir(), "out.mp4")
	f := newFetcherForTest(t, searcher)
	if err := f.FetchBest(context.Background(), "storm", "thunderstorm ocean", 0, out); err != nil {
		t.Fatalf("FetchBest: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("fallback candidate was not downloaded: %v", err)
	}
}

func TestFetchBestNoCandidates(t *testing.T) {
	f := newFetcherForTest(t, &stubSearcher{})
	err := f.FetchBest(context.Background(), "anything", "desc", 0, filepath.Join(t.TempDir(), "o.mp4"))
	if err == nil {
		t.Fatal("expected error for empty candidate list")
	}
}

func TestFetchBestSearchError(t *testing.T) {
	f := newFetcherForTest(t, &stubSearcher{err: fmt.Errorf("search down")})
	err := f.FetchBest(context.Background(), "anything", "desc", 0, filepath.Join(t.TempDir(), "o.mp4"))
	if err == nil {
		t.Fatal("expected search error to propagate")
	}
}

func TestHTTPSearcherSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"url":"http://example.com/v.mp4","title":"a clip","tags":["one","two"]}]}`))
	}))
	defer server.Close()

	s := NewHTTPSearcher(server.URL, "key", 10, 5*time.Second)
	got, err := s.Search(context.Background(), "keyword")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "a clip" || len(got[0].Tags) != 2 {
		t.Errorf("unexpected candidates: %+v", got)
	}
}

func TestHTTPSearcherServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer server.Close()

	s := NewHTTPSearcher(server.URL, "key", 10, 5*time.Second)
	if _, err := s.Search(context.Background(), "keyword"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
