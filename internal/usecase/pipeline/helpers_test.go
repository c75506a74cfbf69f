package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// wordCounter counts one token per whitespace-separated word.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// scriptedClient returns canned responses in order, then repeats the
// last one. It records every call.
type scriptedClient struct {
	mu        sync.Mutex
	responses []string
	calls     []scriptedCall
	err       error
}

type scriptedCall struct {
	system string
	user   string
}

func (c *scriptedClient) Generate(_ context.Context, system, user string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, scriptedCall{system: system, user: user})
	if c.err != nil {
		return "", c.err
	}
	idx := len(c.calls) - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return c.responses[idx], nil
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *scriptedClient) call(i int) scriptedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[i]
}

// routingClient picks a response function per call, useful when
// different chunks must behave differently.
type routingClient struct {
	mu    sync.Mutex
	route func(system, user string) (string, error)
	calls int
}

func (c *routingClient) Generate(_ context.Context, system, user string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.route(system, user)
}

func (c *routingClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// recordingSink captures progress updates for assertions.
type recordingSink struct {
	mu      sync.Mutex
	updates []sinkUpdate
}

type sinkUpdate struct {
	runID    uuid.UUID
	status   entities.RunStatus
	progress float64
	message  string
}

func (s *recordingSink) Report(_ context.Context, runID uuid.UUID, status entities.RunStatus, progress float64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, sinkUpdate{runID: runID, status: status, progress: progress, message: message})
}

func (s *recordingSink) all() []sinkUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sinkUpdate, len(s.updates))
	copy(out, s.updates)
	return out
}

func segmentsFromTexts(texts ...string) []entities.TranscriptSegment {
	segments := make([]entities.TranscriptSegment, 0, len(texts))
	for _, t := range texts {
		segments = append(segments, entities.TranscriptSegment{Text: t})
	}
	return segments
}
