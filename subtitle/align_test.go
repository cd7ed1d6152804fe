package subtitle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGentleAlignerAlign(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		for _, field := range []string{"audio", "transcript"} {
			if _, ok := r.MultipartForm.File[field]; !ok {
				t.Errorf("missing multipart field %q", field)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"words":[
			{"word":"have","start":0.0,"end":0.3},
			{"word":"you","start":null,"end":null},
			{"word":"ever","start":0.5,"end":0.8}
		]}`))
	}))
	defer server.Close()

	audio := writeTempFile(t, "audio.mp3", "fake audio")
	transcript := writeTempFile(t, "transcript.txt", "have you ever")

	aligner := NewGentleAligner(server.URL, 5*time.Second)
	alignment, err := aligner.Align(context.Background(), audio, transcript)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}

	// the unplaced word is dropped
	if len(alignment.Words) != 2 {
		t.Fatalf("got %d words, want 2", len(alignment.Words))
	}
	if alignment.Words[0].Word != "have" || alignment.Words[1].Word != "ever" {
		t.Errorf("unexpected words: %+v", alignment.Words)
	}
	if alignment.Words[1].Start != 0.5 || alignment.Words[1].End != 0.8 {
		t.Errorf("unexpected timestamps: %+v", alignment.Words[1])
	}
}

func TestGentleAlignerServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusInternalServerError)
	}))
	defer server.Close()

	audio := writeTempFile(t, "audio.mp3", "fake audio")
	transcript := writeTempFile(t, "transcript.txt", "words")

	aligner := NewGentleAligner(server.URL, 5*time.Second)
	if _, err := aligner.Align(context.Background(), audio, transcript); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestGentleAlignerMissingAudio(t *testing.T) {
	aligner := NewGentleAligner("http://localhost:0", time.Second)
	transcript := writeTempFile(t, "transcript.txt", "words")
	if _, err := aligner.Align(context.Background(), "/does/not/exist.mp3", transcript); err == nil {
		t.Fatal("expected error for missing audio file")
	}
}
