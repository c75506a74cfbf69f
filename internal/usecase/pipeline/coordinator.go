package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/progress"
)

// Progress milestones of a run. Extraction fills the span between
// progressExtracting and progressMerging proportionally to finished
// chunks.
const (
	progressChunking   = 0.05
	progressExtracting = 0.10
	progressMerging    = 0.75
	progressRefining   = 0.85
	progressDone       = 1.0
)

// Coordinator drives a single transcript through
// chunk -> extract -> merge -> refine, reporting progress along the
// way. Extraction runs concurrently up to maxConcurrent chunks;
// individual chunk failures do not stop the run.
type Coordinator struct {
	chunker       *Chunker
	extractor     *Extractor
	merger        *Merger
	refiner       *Refiner
	sink          progress.Sink
	maxConcurrent int
	logger        *zap.Logger
}

// RunResult carries the protocol together with the failures the run
// tolerated.
type RunResult struct {
	Protocol      *entities.Protocol
	ChunkCount    int
	ChunkFailures []entities.ChunkFailure
}

func NewCoordinator(chunker *Chunker, extractor *Extractor, merger *Merger, refiner *Refiner, sink progress.Sink, maxConcurrent int, logger *zap.Logger) *Coordinator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if sink == nil {
		sink = progress.MultiSink{}
	}
	return &Coordinator{
		chunker:       chunker,
		extractor:     extractor,
		merger:        merger,
		refiner:       refiner,
		sink:          sink,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Run processes one transcript to completion. On success the
// returned protocol is annotated with any chunk failures; the run
// only errors when chunking fails, refinement fails, every chunk
// fails, or the context is cancelled.
func (co *Coordinator) Run(ctx context.Context, runID uuid.UUID, segments []entities.TranscriptSegment, meta entities.MeetingMetadata, language string) (*RunResult, error) {
	reporter := newMonotonicReporter(co.sink, runID)

	if len(segments) == 0 {
		protocol := emptyProtocol(meta, language)
		reporter.report(ctx, entities.RunStatusCompleted, progressDone, "transcript was empty")
		return &RunResult{Protocol: protocol}, nil
	}

	// Stage 1: chunking
	reporter.report(ctx, entities.RunStatusChunking, progressChunking, "splitting transcript")
	chunks, err := co.chunker.Chunk(segments)
	if err != nil {
		reporter.report(ctx, entities.RunStatusError, progressChunking, err.Error())
		return nil, err
	}
	if err := co.checkCancelled(ctx, reporter); err != nil {
		return nil, err
	}

	// Stage 2: extraction, concurrently with a bounded worker count
	reporter.report(ctx, entities.RunStatusExtracting, progressExtracting,
		fmt.Sprintf("extracting facts from %d chunks", len(chunks)))

	results := make([]*entities.ExtractionResult, len(chunks))
	failures := make([]entities.ChunkFailure, 0)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	semaphore := make(chan struct{}, co.maxConcurrent)

	for _, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(chunk entities.Chunk) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			result, err := co.extractor.Extract(ctx, chunk, language)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctx.Err() == nil {
					failures = append(failures, entities.ChunkFailure{
						Index:  chunk.Index,
						Reason: err.Error(),
					})
					if co.logger != nil {
						co.logger.Error("❌ Chunk extraction failed",
							zap.String("run_id", runID.String()),
							zap.Int("chunk", chunk.Index),
							zap.Error(err))
					}
				}
			} else {
				results[chunk.Index] = result
			}
			completed++
			frac := float64(completed) / float64(len(chunks))
			reporter.report(ctx, entities.RunStatusExtracting,
				progressExtracting+frac*(progressMerging-progressExtracting),
				fmt.Sprintf("extracted %d/%d chunks", completed, len(chunks)))
		}(chunk)
	}
	wg.Wait()

	if err := co.checkCancelled(ctx, reporter); err != nil {
		return nil, err
	}

	extracted := make([]*entities.ExtractionResult, 0, len(results))
	for _, res := range results {
		if res != nil {
			extracted = append(extracted, res)
		}
	}
	if len(extracted) == 0 {
		err := fmt.Errorf("extraction failed for all %d chunks", len(chunks))
		reporter.report(ctx, entities.RunStatusError, progressMerging, err.Error())
		return nil, err
	}

	// Stage 3: merging
	reporter.report(ctx, entities.RunStatusMerging, progressMerging, "consolidating facts")
	facts := co.merger.Merge(ctx, extracted, language)
	if err := co.checkCancelled(ctx, reporter); err != nil {
		return nil, err
	}

	// Stage 4: refinement
	reporter.report(ctx, entities.RunStatusRefining, progressRefining, "generating protocol")
	protocol, err := co.refiner.Refine(ctx, facts, meta, language)
	if err != nil {
		if ctx.Err() != nil {
			return nil, co.checkCancelled(ctx, reporter)
		}
		reporter.report(ctx, entities.RunStatusError, progressRefining, err.Error())
		return nil, err
	}

	protocol.Error = failureNote(failures)
	reporter.report(ctx, entities.RunStatusCompleted, progressDone, "protocol generated")

	if co.logger != nil {
		co.logger.Info("✅ Pipeline run completed",
			zap.String("run_id", runID.String()),
			zap.Int("chunks", len(chunks)),
			zap.Int("failed_chunks", len(failures)))
	}
	return &RunResult{
		Protocol:      protocol,
		ChunkCount:    len(chunks),
		ChunkFailures: failures,
	}, nil
}

func (co *Coordinator) checkCancelled(ctx context.Context, reporter *monotonicReporter) error {
	if ctx.Err() == nil {
		return nil
	}
	reporter.reportTerminal(entities.RunStatusError, "run cancelled")
	return fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
}

// failureNote renders tolerated chunk failures for the protocol's
// error annotation, in chunk order.
func failureNote(failures []entities.ChunkFailure) string {
	if len(failures) == 0 {
		return ""
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Index < failures[j].Index })
	notes := make([]string, 0, len(failures))
	for _, f := range failures {
		notes = append(notes, fmt.Sprintf("chunk %d could not be analyzed: %s", f.Index+1, f.Reason))
	}
	return "Some transcript parts are missing from this protocol: " + strings.Join(notes, "; ")
}

func emptyProtocol(meta entities.MeetingMetadata, language string) *entities.Protocol {
	p := entities.NewProtocol()
	p.Metadata = entities.ProtocolMetadata{
		Title:     meta.Title,
		Date:      meta.Date,
		Location:  meta.Location,
		Organizer: meta.Organizer,
		Language:  language,
	}
	if p.Metadata.Title == "" {
		p.Metadata.Title = "Meeting Protocol"
	}
	p.Summary = "No content to analyze."
	for _, name := range meta.Participants {
		p.Participants = append(p.Participants, entities.Participant{Name: name})
	}
	return p
}

// monotonicReporter serializes progress updates for one run and
// never lets the fraction go backwards, so concurrent extraction
// workers cannot reorder updates.
type monotonicReporter struct {
	sink  progress.Sink
	runID uuid.UUID

	mu   sync.Mutex
	last float64
	done bool
}

func newMonotonicReporter(sink progress.Sink, runID uuid.UUID) *monotonicReporter {
	return &monotonicReporter{sink: sink, runID: runID}
}

func (r *monotonicReporter) report(ctx context.Context, status entities.RunStatus, fraction float64, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	if fraction < r.last {
		fraction = r.last
	}
	r.last = fraction
	if status.Terminal() {
		r.done = true
	}
	r.sink.Report(ctx, r.runID, status, fraction, message)
}

// reportTerminal marks the run failed without advancing progress.
// Uses a background context since the run context is already gone.
func (r *monotonicReporter) reportTerminal(status entities.RunStatus, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.done = true
	r.sink.Report(context.Background(), r.runID, status, r.last, message)
}
