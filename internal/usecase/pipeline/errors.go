package pipeline

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when a run is stopped between stages.
var ErrCancelled = errors.New("pipeline run cancelled")

// ChunkingError wraps a failure while splitting the transcript.
type ChunkingError struct {
	Err error
}

func (e *ChunkingError) Error() string {
	return fmt.Sprintf("chunking failed: %v", e.Err)
}

func (e *ChunkingError) Unwrap() error {
	return e.Err
}

// ExtractionError is the terminal failure of a single chunk after
// all attempts were used up. The run keeps going; the failure is
// recorded against the chunk.
type ExtractionError struct {
	ChunkIndex int
	Attempts   int
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction of chunk %d failed after %d attempts: %v", e.ChunkIndex+1, e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// RefinementError means no schema-valid protocol could be produced
// within the attempt budget. This fails the whole run.
type RefinementError struct {
	Attempts int
	Err      error
}

func (e *RefinementError) Error() string {
	return fmt.Sprintf("refinement failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RefinementError) Unwrap() error {
	return e.Err
}
