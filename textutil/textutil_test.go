package textutil

import "testing"

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00,000"},
		{"sub-second", 0.5, "00:00:00,500"},
		{"seconds and millis", 12.345, "00:00:12,345"},
		{"minutes", 75.0, "00:01:15,000"},
		{"hours", 3661.25, "01:01:01,250"},
		{"negative clamps to zero", -3.2, "00:00:00,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.seconds); got != tt.want {
				t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    float64
		wantErr bool
	}{
		{"hh:mm:ss", "01:02:03", 3723, false},
		{"mm:ss", "02:30", 150, false},
		{"bare seconds", "42", 42, false},
		{"fractional seconds", "00:00:01.5", 1.5, false},
		{"whitespace", "  1:30  ", 90, false},
		{"garbage", "not a clock", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.clock)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.clock, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     string
	}{
		{"fits on one line", "hello world", 40, "hello world"},
		{"wraps at width", "one two three four", 9, `one two\Nthree\Nfour`},
		{"single long word kept whole", "incomprehensibilities", 5, "incomprehensibilities"},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapText(tt.text, tt.maxWidth); got != tt.want {
				t.Errorf("WrapText(%q, %d) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestCleanForTTS(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain text untouched", "Hello there, friend.", "Hello there, friend."},
		{"asterisks stripped", "This is *very* important", "This is very important"},
		{"symbols stripped", "Cost: $50 (roughly)", "Cost 50 roughly"},
		{"ellipsis collapsed", "Wait... what", "Wait. what"},
		{"repeated bangs collapsed", "No!! Way!!!", "No! Way!"},
		{"repeated questions collapsed", "Really??", "Really?"},
		{"whitespace collapsed", "too   many\n\nspaces", "too many spaces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanForTTS(tt.text); got != tt.want {
				t.Errorf("CleanForTTS(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
