// Package tokenizer counts model tokens for prompt budgeting.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts the tokens a piece of text occupies in the model's
// vocabulary.
type Counter interface {
	CountTokens(text string) (int, error)
}

// TiktokenCounter counts tokens with a tiktoken BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding, e.g. "cl100k_base".
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{encoding: tke}, nil
}

func (t *TiktokenCounter) CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return len(t.encoding.Encode(text, nil, nil)), nil
}

// HeuristicCounter approximates token counts as one token per four
// characters. Used when the BPE files cannot be loaded.
type HeuristicCounter struct{}

func (HeuristicCounter) CountTokens(text string) (int, error) {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4, nil
}
