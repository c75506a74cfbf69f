package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// Merger consolidates per-chunk extraction results into one fact
// set, discarding near-duplicate statements that the chunk overlap
// inevitably produces. Merging never hard-fails: the optional model
// pass over the summaries falls back to plain concatenation.
type Merger struct {
	client    ModelClient
	threshold float64
	logger    *zap.Logger
}

// NewMerger creates a Merger. client may be nil, in which case
// summaries are always concatenated.
func NewMerger(client ModelClient, threshold float64, logger *zap.Logger) *Merger {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Merger{
		client:    client,
		threshold: threshold,
		logger:    logger,
	}
}

// Merge folds the results, in chunk order, into a consolidated fact
// set. A statement whose similarity to an already kept one reaches
// the threshold is dropped; its metadata fills gaps in the kept
// entry. Merging a merged set again yields the same set.
func (m *Merger) Merge(ctx context.Context, results []*entities.ExtractionResult, language string) *entities.ConsolidatedFacts {
	facts := &entities.ConsolidatedFacts{
		Decisions: []entities.Decision{},
		Actions:   []entities.Action{},
	}

	var summaries []string
	for _, res := range results {
		if res == nil {
			continue
		}
		if s := strings.TrimSpace(res.Summary); s != "" {
			summaries = append(summaries, s)
		}
		for _, d := range res.Decisions {
			facts.Decisions = mergeDecision(facts.Decisions, d, m.threshold)
		}
		for _, a := range res.Actions {
			facts.Actions = mergeAction(facts.Actions, a, m.threshold)
		}
	}

	facts.Summary = m.combineSummaries(ctx, summaries, language)

	if m.logger != nil {
		m.logger.Info("🧩 Facts merged",
			zap.Int("results", len(results)),
			zap.Int("decisions", len(facts.Decisions)),
			zap.Int("actions", len(facts.Actions)))
	}
	return facts
}

func mergeDecision(kept []entities.Decision, d entities.Decision, threshold float64) []entities.Decision {
	for i := range kept {
		if Similarity(kept[i].Text, d.Text) >= threshold {
			if kept[i].Context == "" {
				kept[i].Context = d.Context
			}
			return kept
		}
	}
	return append(kept, d)
}

func mergeAction(kept []entities.Action, a entities.Action, threshold float64) []entities.Action {
	for i := range kept {
		if Similarity(kept[i].Text, a.Text) >= threshold {
			if kept[i].Assignee == "" {
				kept[i].Assignee = a.Assignee
			}
			if kept[i].DueDate == "" {
				kept[i].DueDate = a.DueDate
			}
			if kept[i].Context == "" {
				kept[i].Context = a.Context
			}
			return kept
		}
	}
	return append(kept, a)
}

// combineSummaries asks the model for a coherent combined summary
// when there is more than one part, falling back to concatenation
// on any failure.
func (m *Merger) combineSummaries(ctx context.Context, summaries []string, language string) string {
	switch len(summaries) {
	case 0:
		return ""
	case 1:
		return summaries[0]
	}

	joined := strings.Join(summaries, "\n\n")
	if m.client == nil {
		return joined
	}

	combined, err := m.client.Generate(ctx, combinePrompt(language), joined)
	if err != nil || strings.TrimSpace(combined) == "" {
		if m.logger != nil {
			m.logger.Warn("⚠️ Summary combination failed, concatenating parts", zap.Error(err))
		}
		return joined
	}
	return strings.TrimSpace(combined)
}
