package agents

import (
	"strings"
	"testing"
	"time"
)

func TestExtractSelectedTitle(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			"labeled line",
			"Here is my analysis.\nSelected Title: The Best Title Ever\nBecause it works.",
			"The Best Title Ever",
		},
		{
			"quoted title",
			`Selected Title: "Quoted Title"`,
			"Quoted Title",
		},
		{
			"short label",
			"Title: Another One",
			"Another One",
		},
		{
			"no label falls back to whole output",
			"  Just A Bare Title  ",
			"Just A Bare Title",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSelectedTitle(tt.output); got != tt.want {
				t.Errorf("ExtractSelectedTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	output := strings.Join([]string{
		"Here are your hashtags:",
		"#viral #shorts #trending",
		"And the tags:",
		"travel, adventure, hiking, Travel, mountains",
		"extra line without commas",
		"camping, outdoors",
	}, "\n")

	tags := ParseTags(output, 10)
	want := []string{"travel", "adventure", "hiking", "mountains", "camping", "outdoors"}
	if len(tags) != len(want) {
		t.Fatalf("ParseTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestParseTagsLimit(t *testing.T) {
	tags := ParseTags("a, b, c, d, e", 3)
	if len(tags) != 3 {
		t.Errorf("ParseTags with limit 3 returned %d tags", len(tags))
	}
}

func TestFromDate(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		period string
		want   string
	}{
		{"", ""},
		{"all", ""},
		{"past week", "2026-08-21"},
		{"past month", "2026-07-29"},
		{"past year", "2025-08-28"},
		{"7 days", "2026-08-21"},
		{"30 days", "2026-07-29"},
		{"soonish", ""},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			if got := fromDate(tt.period, now); got != tt.want {
				t.Errorf("fromDate(%q) = %q, want %q", tt.period, got, tt.want)
			}
		})
	}
}
