package storyboard

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	prose "github.com/jdkato/prose/v2"

	"github.com/mikeoller82/youtube-shorts-generator/types"
)

const maxKeywords = 5

// Enhancer extracts search keywords from scene text using POS tagging
// and named-entity recognition.
type Enhancer struct {
	lemmatizer *golem.Lemmatizer
}

func NewEnhancer() (*Enhancer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	return &Enhancer{lemmatizer: lem}, nil
}

// Enhance replaces a scene's search keywords with the top content-word
// lemmas from its narration and visual description. The same keyword
// string serves both video and image search. Pure scene mutation, no I/O.
func (e *Enhancer) Enhance(scene *types.Scene) error {
	narration, err := e.contentLemmas(scene.NarrationText)
	if err != nil {
		return fmt.Errorf("scene %d narration keywords: %w", scene.Number, err)
	}
	visual, err := e.contentLemmas(scene.Visual)
	if err != nil {
		return fmt.Errorf("scene %d visual keywords: %w", scene.Number, err)
	}

	combined := dedupe(append(narration, visual...))
	if len(combined) == 0 {
		// Keep the parser's keywords when the text has no content words.
		return nil
	}
	if len(combined) > maxKeywords {
		combined = combined[:maxKeywords]
	}

	keyword := strings.Join(combined, " ")
	scene.VideoKeyword = keyword
	scene.ImageKeyword = keyword
	return nil
}

// contentLemmas returns lemmas of nouns, proper nouns and named-entity
// tokens, in order of appearance.
func (e *Enhancer) contentLemmas(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	var lemmas []string
	for _, tok := range doc.Tokens() {
		if !isContentToken(tok) {
			continue
		}
		word := strings.ToLower(strings.Trim(tok.Text, `.,!?'"`))
		if word == "" {
			continue
		}
		lemmas = append(lemmas, e.lemmatizer.Lemma(word))
	}
	return lemmas, nil
}

func isContentToken(tok prose.Token) bool {
	if strings.HasPrefix(tok.Tag, "NN") {
		return true
	}
	return tok.Label != "" && tok.Label != "O"
}

// dedupe removes repeats, keeping first-seen order as the tie-break.
func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
