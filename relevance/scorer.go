// Package relevance ranks media-search candidates against a scene
// description. It is a pure lexical measure and performs no I/O.
package relevance

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/bbalet/stopwords"

	"github.com/mikeoller82/youtube-shorts-generator/textutil"
	"github.com/mikeoller82/youtube-shorts-generator/types"
)

// syncWindowSec is the width of the time window used when matching a
// candidate's time-coded tracks against the target timestamp.
const syncWindowSec = 5.0

const (
	titleWeight  = 2.0
	syncedWeight = 1.5
)

type Scorer struct {
	lemmatizer *golem.Lemmatizer
}

func NewScorer() (*Scorer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	return &Scorer{lemmatizer: lem}, nil
}

// Score rates a candidate against a description, normalized by the
// maximum achievable score. Tag overlap counts ×1, title lemma overlap
// ×2, and lemma overlap of the subtitle and audio-transcript tracks
// trimmed to the sync window each count ×1.5. Returns 0 when no lexical
// overlap is possible.
func (s *Scorer) Score(candidate types.MediaCandidate, description string, timestamp float64) float64 {
	descWords := s.lemmaSet(description)

	tags := make(map[string]bool, len(candidate.Tags))
	for _, t := range candidate.Tags {
		tags[strings.ToLower(t)] = true
	}

	titleWords := s.lemmaSet(candidate.Title)
	subtitleWords := s.lemmaSet(extractTimed(candidate.Subtitles, timestamp))
	audioWords := s.lemmaSet(extractTimed(candidate.AudioTranscript, timestamp))

	score := float64(intersect(tags, descWords))
	score += titleWeight * float64(intersect(titleWords, descWords))
	score += syncedWeight * float64(intersect(subtitleWords, descWords))
	score += syncedWeight * float64(intersect(audioWords, descWords))

	max := float64(len(tags)) +
		titleWeight*float64(len(titleWords)) +
		syncedWeight*float64(len(subtitleWords)) +
		syncedWeight*float64(len(audioWords))
	if max == 0 {
		return 0
	}
	return score / max
}

// lemmaSet lowercases, strips stop words, keeps alphabetic tokens and
// lemmatizes what remains.
func (s *Scorer) lemmaSet(text string) map[string]bool {
	set := make(map[string]bool)
	if strings.TrimSpace(text) == "" {
		return set
	}
	cleaned := stopwords.CleanString(strings.ToLower(text), "en", false)
	for _, word := range strings.Fields(cleaned) {
		word = strings.Trim(word, `.,!?'":;`)
		if word == "" || !alphabetic(word) {
			continue
		}
		set[s.lemmatizer.Lemma(word)] = true
	}
	return set
}

// extractTimed joins the text of track entries overlapping the window
// starting at timestamp.
func extractTimed(track []types.TimedText, timestamp float64) string {
	if len(track) == 0 {
		return ""
	}
	start, end := timestamp, timestamp+syncWindowSec
	var parts []string
	for _, item := range track {
		itemStart := clockSeconds(item.Start)
		itemEnd := clockSeconds(item.End)
		if start <= itemEnd && end >= itemStart {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, " ")
}

func clockSeconds(clock string) float64 {
	if clock == "" {
		return 0
	}
	sec, err := textutil.ParseClock(clock)
	if err != nil {
		return 0
	}
	return sec
}

func intersect(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}

func alphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
