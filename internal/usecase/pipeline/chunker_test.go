package pipeline

import (
	"reflect"
	"testing"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

func TestChunkEmptyTranscript(t *testing.T) {
	c := NewChunker(wordCounter{}, 10, 2, nil)

	chunks, err := c.Chunk(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestChunkSingleSmallTranscript(t *testing.T) {
	c := NewChunker(wordCounter{}, 10, 2, nil)
	segments := segmentsFromTexts("one two three", "four five")

	chunks, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].TokenCount != 5 {
		t.Fatalf("expected 5 tokens, got %d", chunks[0].TokenCount)
	}
	if chunks[0].OverlapWithPrevious != 0 {
		t.Fatalf("first chunk must have no overlap")
	}
}

func TestChunkRespectsTokenBudget(t *testing.T) {
	segments := segmentsFromTexts(
		"a b c",   // 3 tokens
		"d e",     // 2 tokens -> fits, chunk full
		"f g h",   // 3 tokens -> new chunk
		"i",       // 1 token
		"j k l m", // 4 tokens -> new chunk
	)

	for _, overlap := range []int{0, 3} {
		c := NewChunker(wordCounter{}, 5, overlap, nil)

		chunks, err := c.Chunk(segments)
		if err != nil {
			t.Fatalf("overlap %d: unexpected error: %v", overlap, err)
		}
		if overlap == 0 && len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(chunks))
		}
		for _, chunk := range chunks {
			if chunk.TokenCount > 5 {
				t.Fatalf("overlap %d: chunk %d exceeds budget: %d tokens",
					overlap, chunk.Index, chunk.TokenCount)
			}
		}
	}
}

func TestChunkOversizedSegmentBecomesOwnChunk(t *testing.T) {
	c := NewChunker(wordCounter{}, 3, 1, nil)
	segments := segmentsFromTexts(
		"a b",
		"c d e f g h", // 6 tokens, over the budget of 3
		"i j",
	)

	chunks, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[1].TokenCount != 6 || len(chunks[1].Segments) != 1 {
		t.Fatalf("oversized segment should be alone in its chunk, got %d segments with %d tokens",
			len(chunks[1].Segments), chunks[1].TokenCount)
	}
	if chunks[1].OverlapWithPrevious != 0 || chunks[2].OverlapWithPrevious != 0 {
		t.Fatalf("oversized chunk must not carry overlap on either side")
	}
}

func TestChunkOverlapStaysWithinBudget(t *testing.T) {
	c := NewChunker(wordCounter{}, 6, 3, nil)
	segments := segmentsFromTexts(
		"a b",   // 2
		"c d",   // 2
		"e f",   // 2 -> chunk 0 is full at 6
		"g h i", // 3 -> chunk 1 starts, overlap should carry trailing segments
	)

	chunks, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	// Trailing "c d" + "e f" would be 4 tokens > 3, so only "e f"
	// (2 tokens) is the closest fit under the overlap budget.
	if chunks[1].OverlapWithPrevious != 1 {
		t.Fatalf("expected 1 overlap segment, got %d", chunks[1].OverlapWithPrevious)
	}
	if chunks[1].Segments[0].Text != "e f" {
		t.Fatalf("wrong overlap segment: %q", chunks[1].Segments[0].Text)
	}
}

func TestChunkDropsOverlapWhenNextSegmentBarelyFits(t *testing.T) {
	c := NewChunker(wordCounter{}, 10, 4, nil)
	segments := segmentsFromTexts(
		"a b c d e f",       // 6 tokens
		"g h i j",           // 4 tokens -> chunk 0 is full at 10
		"k l m n o p q r s", // 9 tokens, leaves no room for overlap
	)

	chunks, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if chunk.TokenCount > 10 {
			t.Fatalf("chunk %d exceeds budget: %d tokens", chunk.Index, chunk.TokenCount)
		}
	}
	if chunks[1].OverlapWithPrevious != 0 || len(chunks[1].Segments) != 1 {
		t.Fatalf("expected overlap dropped entirely, got %d overlap over %d segments",
			chunks[1].OverlapWithPrevious, len(chunks[1].Segments))
	}
}

func TestChunkShrinksOverlapToFitNextSegment(t *testing.T) {
	c := NewChunker(wordCounter{}, 10, 6, nil)
	segments := segmentsFromTexts(
		"a b",           // 2 tokens
		"c d",           // 2 tokens
		"e f",           // 2 tokens
		"g h",           // 2 tokens
		"i j k l m n o", // 7 tokens
	)

	chunks, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	// The 6-token overlap window would carry three trailing segments,
	// but only one fits beside the 7-token segment under the budget.
	if chunks[1].OverlapWithPrevious != 1 {
		t.Fatalf("expected 1 overlap segment, got %d", chunks[1].OverlapWithPrevious)
	}
	if chunks[1].Segments[0].Text != "g h" {
		t.Fatalf("wrong overlap segment: %q", chunks[1].Segments[0].Text)
	}
	if chunks[1].TokenCount > 10 {
		t.Fatalf("chunk 1 exceeds budget: %d tokens", chunks[1].TokenCount)
	}
}

func TestChunkReconstructionInvariant(t *testing.T) {
	c := NewChunker(wordCounter{}, 4, 2, nil)
	segments := segmentsFromTexts("a b", "c", "d e", "f", "g h i j k", "l", "m n")

	chunks, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reconstructed []entities.TranscriptSegment
	for _, chunk := range chunks {
		reconstructed = append(reconstructed, chunk.NewSegments()...)
	}
	if !reflect.DeepEqual(reconstructed, segments) {
		t.Fatalf("non-overlap segments do not reproduce the input:\nwant %v\ngot  %v", segments, reconstructed)
	}
}

func TestChunkDeterministic(t *testing.T) {
	c := NewChunker(wordCounter{}, 4, 2, nil)
	segments := segmentsFromTexts("a b", "c d", "e f", "g", "h i j")

	first, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("chunking is not deterministic")
	}
}

func TestChunkDisablesBadOverlap(t *testing.T) {
	// Overlap >= budget cannot make progress and must be ignored.
	c := NewChunker(wordCounter{}, 4, 4, nil)
	segments := segmentsFromTexts("a b c", "d e f", "g h")

	chunks, err := c.Chunk(segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, chunk := range chunks {
		if chunk.OverlapWithPrevious != 0 {
			t.Fatalf("expected overlap disabled, chunk %d has %d", chunk.Index, chunk.OverlapWithPrevious)
		}
	}
}
