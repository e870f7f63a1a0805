package render

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain ascii untouched",
			input: "holiday.png",
			want:  "holiday.png",
		},
		{
			name:  "wide characters untouched",
			input: "写真.jpg",
			want:  "写真.jpg",
		},
		{
			name:  "sgr sequence removed",
			input: "a\x1b[31mb\x1b[0m",
			want:  "ab",
		},
		{
			name:  "cursor move removed",
			input: "x\x1b[2;5fy",
			want:  "xy",
		},
		{
			name:  "newline and bell dropped",
			input: "one\ntwo\a",
			want:  "onetwo",
		},
		{
			name:  "tab becomes space",
			input: "a\tb",
			want:  "a b",
		},
		{
			name:  "non-breaking space becomes space",
			input: "a\u00a0b",
			want:  "a b",
		},
		{
			name:  "invalid utf8 dropped",
			input: "a\xffb",
			want:  "ab",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"写真", 4},
		{"a写b", 4},
	}

	for _, tt := range tests {
		if got := Width(tt.input); got != tt.want {
			t.Errorf("Width(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{
			name:     "no truncation needed",
			input:    "hello",
			maxWidth: 10,
			want:     "hello",
		},
		{
			name:     "exact fit",
			input:    "hello",
			maxWidth: 5,
			want:     "hello",
		},
		{
			name:     "truncation with ellipsis",
			input:    "hello world",
			maxWidth: 8,
			want:     "hello...",
		},
		{
			name:     "zero width",
			input:    "hello",
			maxWidth: 0,
			want:     "",
		},
		{
			name:     "sanitised before measuring",
			input:    "\x1b[1mhello\x1b[0m",
			maxWidth: 5,
			want:     "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}
