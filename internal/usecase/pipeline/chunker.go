package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/tokenizer"
)

// Chunker splits a transcript into token-bounded windows that fit a
// single model call, carrying a configurable overlap between
// consecutive windows so facts on a boundary are not lost.
type Chunker struct {
	counter       tokenizer.Counter
	maxTokens     int
	overlapTokens int
	logger        *zap.Logger
}

// NewChunker creates a Chunker. An overlap equal to or larger than
// the chunk budget would never make progress, so it is reset to zero.
func NewChunker(counter tokenizer.Counter, maxTokens, overlapTokens int, logger *zap.Logger) *Chunker {
	if overlapTokens >= maxTokens {
		if logger != nil {
			logger.Warn("⚠️ Overlap not smaller than chunk budget, disabling overlap",
				zap.Int("max_tokens", maxTokens),
				zap.Int("overlap_tokens", overlapTokens))
		}
		overlapTokens = 0
	}
	return &Chunker{
		counter:       counter,
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
		logger:        logger,
	}
}

// Chunk splits the segments greedily: segments are appended in order
// until the next one would exceed the token budget, then a new chunk
// starts with the previous chunk's trailing segments as overlap. A
// single segment over the budget becomes its own oversized chunk.
// Concatenating every chunk's NewSegments reproduces the input.
func (c *Chunker) Chunk(segments []entities.TranscriptSegment) ([]entities.Chunk, error) {
	if len(segments) == 0 {
		return []entities.Chunk{}, nil
	}

	tokens := make([]int, len(segments))
	for i, seg := range segments {
		n, err := c.counter.CountTokens(segmentText(seg))
		if err != nil {
			return nil, &ChunkingError{Err: fmt.Errorf("counting tokens of segment %d: %w", i, err)}
		}
		tokens[i] = n
	}

	var chunks []entities.Chunk
	var cur []entities.TranscriptSegment
	var curTokens []int
	curTotal := 0
	overlap := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, entities.Chunk{
			Index:               len(chunks),
			Segments:            cur,
			TokenCount:          curTotal,
			OverlapWithPrevious: overlap,
		})
	}

	for i, seg := range segments {
		segTokens := tokens[i]

		if segTokens > c.maxTokens {
			// Oversized segment: close the window and emit the
			// segment as its own chunk, without overlap either side.
			flush()
			chunks = append(chunks, entities.Chunk{
				Index:               len(chunks),
				Segments:            []entities.TranscriptSegment{seg},
				TokenCount:          segTokens,
				OverlapWithPrevious: 0,
			})
			if c.logger != nil {
				c.logger.Warn("⚠️ Segment exceeds chunk budget",
					zap.Int("segment", i),
					zap.Int("tokens", segTokens),
					zap.Int("max_tokens", c.maxTokens))
			}
			cur, curTokens, curTotal, overlap = nil, nil, 0, 0
			continue
		}

		if len(cur) > 0 && curTotal+segTokens > c.maxTokens {
			flush()
			tail, tailTokens := c.overlapTail(cur, curTokens)
			// The triggering segment must still fit next to the
			// overlap; shed leading overlap segments until it does.
			for len(tail) > 0 && sum(tailTokens)+segTokens > c.maxTokens {
				tail = tail[1:]
				tailTokens = tailTokens[1:]
			}
			overlap = len(tail)
			cur = append([]entities.TranscriptSegment{}, tail...)
			curTokens = append([]int{}, tailTokens...)
			curTotal = sum(tailTokens)
		}

		cur = append(cur, seg)
		curTokens = append(curTokens, segTokens)
		curTotal += segTokens
	}
	flush()

	if c.logger != nil {
		c.logger.Info("✂️ Transcript chunked",
			zap.Int("segments", len(segments)),
			zap.Int("chunks", len(chunks)))
	}
	return chunks, nil
}

// overlapTail picks the trailing segments of the closed chunk whose
// cumulative token count comes closest to the overlap budget without
// exceeding it. At least one segment of the chunk always stays out
// of the overlap.
func (c *Chunker) overlapTail(segs []entities.TranscriptSegment, tokens []int) ([]entities.TranscriptSegment, []int) {
	if c.overlapTokens <= 0 || len(segs) < 2 {
		return nil, nil
	}
	total := 0
	start := len(segs)
	for i := len(segs) - 1; i > 0; i-- {
		if total+tokens[i] > c.overlapTokens {
			break
		}
		total += tokens[i]
		start = i
	}
	if start == len(segs) {
		return nil, nil
	}
	return segs[start:], tokens[start:]
}

func segmentText(seg entities.TranscriptSegment) string {
	if seg.Speaker != "" {
		return seg.Speaker + ": " + seg.Text
	}
	return seg.Text
}

func sum(ns []int) int {
	total := 0
	for _, n := range ns {
		total += n
	}
	return total
}
