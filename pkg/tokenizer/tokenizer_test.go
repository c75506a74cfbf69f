package tokenizer

import "testing"

func TestHeuristicCounter(t *testing.T) {
	c := HeuristicCounter{}

	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"hello world, this is a meeting", 8},
		{"äöüß", 1},
	}
	for _, tt := range tests {
		got, err := c.CountTokens(tt.in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Fatalf("CountTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
