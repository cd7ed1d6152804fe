// Package textutil holds the small text helpers shared by the subtitle,
// voice and media stages.
package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonSpeech    = regexp.MustCompile(`[^\w\s.,!?'"]`)
	repeatStops  = regexp.MustCompile(`\.{2,}`)
	repeatBangs  = regexp.MustCompile(`!{2,}`)
	repeatQuests = regexp.MustCompile(`\?{2,}`)
)

// FormatTime renders seconds as an SRT timestamp, HH:MM:SS,mmm.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	millis := int((seconds - float64(total)) * 1000)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, millis)
}

// ParseClock converts "HH:MM:SS", "MM:SS" or a bare seconds value to
// seconds. Fractional seconds are accepted in the last field.
func ParseClock(clock string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	switch len(parts) {
	case 3:
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", clock, err)
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", clock, err)
		}
		s, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", clock, err)
		}
		return float64(h)*3600 + float64(m)*60 + s, nil
	case 2:
		m, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", clock, err)
		}
		s, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", clock, err)
		}
		return float64(m)*60 + s, nil
	default:
		s, err := strconv.ParseFloat(strings.TrimSpace(clock), 64)
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", clock, err)
		}
		return s, nil
	}
}

// WrapText breaks text into lines no wider than maxWidth and joins them
// with the ASS line separator, ready for a drawtext/subtitle filter.
func WrapText(text string, maxWidth int) string {
	words := strings.Fields(text)
	var lines []string
	var current []string
	length := 0

	for _, word := range words {
		if length+len(word)+1 <= maxWidth || len(current) == 0 {
			current = append(current, word)
			length += len(word) + 1
		} else {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
			length = len(word)
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return strings.Join(lines, `\N`)
}

// CleanForTTS strips markup characters the TTS engine would read aloud:
// asterisks, stray symbols, repeated punctuation and extra whitespace.
func CleanForTTS(text string) string {
	text = strings.ReplaceAll(text, "*", "")
	text = nonSpeech.ReplaceAllString(text, "")
	text = repeatStops.ReplaceAllString(text, ".")
	text = repeatBangs.ReplaceAllString(text, "!")
	text = repeatQuests.ReplaceAllString(text, "?")
	return strings.Join(strings.Fields(text), " ")
}
