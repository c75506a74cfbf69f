package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

func TestMergeDropsNearDuplicates(t *testing.T) {
	m := NewMerger(nil, DefaultSimilarityThreshold, nil)
	results := []*entities.ExtractionResult{
		{
			Summary:   "First part.",
			Decisions: []entities.Decision{{Text: "Budget approved for Q3"}},
			Actions:   []entities.Action{{Text: "Send the report", Assignee: "anna"}},
		},
		{
			Summary:   "Second part.",
			Decisions: []entities.Decision{{Text: "The budget was approved for Q3", Context: "finance review"}},
			Actions:   []entities.Action{{Text: "Send the report", DueDate: "2026-09-15"}},
		},
	}

	facts := m.Merge(context.Background(), results, "en")

	if len(facts.Decisions) != 1 {
		t.Fatalf("expected 1 decision after dedup, got %d", len(facts.Decisions))
	}
	if facts.Decisions[0].Text != "Budget approved for Q3" {
		t.Fatalf("first occurrence must win, got %q", facts.Decisions[0].Text)
	}
	if facts.Decisions[0].Context != "finance review" {
		t.Fatalf("duplicate metadata must fill the gap, got %q", facts.Decisions[0].Context)
	}
	if len(facts.Actions) != 1 {
		t.Fatalf("expected 1 action after dedup, got %d", len(facts.Actions))
	}
	if facts.Actions[0].Assignee != "anna" || facts.Actions[0].DueDate != "2026-09-15" {
		t.Fatalf("merged action lost metadata: %+v", facts.Actions[0])
	}
}

func TestMergeKeepsDistinctFacts(t *testing.T) {
	m := NewMerger(nil, DefaultSimilarityThreshold, nil)
	results := []*entities.ExtractionResult{
		{Decisions: []entities.Decision{
			{Text: "Budget approved for Q3"},
			{Text: "Postpone the product launch to November"},
		}},
	}

	facts := m.Merge(context.Background(), results, "en")
	if len(facts.Decisions) != 2 {
		t.Fatalf("distinct decisions must both survive, got %d", len(facts.Decisions))
	}
}

func TestMergeIdempotent(t *testing.T) {
	m := NewMerger(nil, DefaultSimilarityThreshold, nil)
	results := []*entities.ExtractionResult{
		{
			Summary:   "Part one.",
			Decisions: []entities.Decision{{Text: "Budget approved for Q3"}, {Text: "The budget was approved for Q3"}},
			Actions:   []entities.Action{{Text: "Send the report"}, {Text: "Book the venue"}},
		},
	}

	first := m.Merge(context.Background(), results, "en")
	second := m.Merge(context.Background(), []*entities.ExtractionResult{{
		Summary:   first.Summary,
		Decisions: first.Decisions,
		Actions:   first.Actions,
	}}, "en")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-merging a merged set changed it:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestMergeSkipsNilResults(t *testing.T) {
	m := NewMerger(nil, DefaultSimilarityThreshold, nil)
	results := []*entities.ExtractionResult{
		nil,
		{Summary: "Only part.", Decisions: []entities.Decision{{Text: "Ship it"}}},
		nil,
	}

	facts := m.Merge(context.Background(), results, "en")
	if facts.Summary != "Only part." {
		t.Fatalf("single summary must pass through unchanged, got %q", facts.Summary)
	}
	if len(facts.Decisions) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(facts.Decisions))
	}
}

func TestMergeCombinesSummariesViaModel(t *testing.T) {
	client := &scriptedClient{responses: []string{"One combined summary."}}
	m := NewMerger(client, DefaultSimilarityThreshold, nil)
	results := []*entities.ExtractionResult{
		{Summary: "Part one."},
		{Summary: "Part two."},
	}

	facts := m.Merge(context.Background(), results, "en")
	if facts.Summary != "One combined summary." {
		t.Fatalf("expected combined summary, got %q", facts.Summary)
	}
	if client.callCount() != 1 {
		t.Fatalf("expected 1 model call, got %d", client.callCount())
	}
	if !strings.Contains(client.call(0).user, "Part one.") || !strings.Contains(client.call(0).user, "Part two.") {
		t.Fatalf("combine call must carry both parts, got %q", client.call(0).user)
	}
}

func TestMergeFallsBackToConcatenation(t *testing.T) {
	client := &scriptedClient{err: errors.New("model down")}
	m := NewMerger(client, DefaultSimilarityThreshold, nil)
	results := []*entities.ExtractionResult{
		{Summary: "Part one."},
		{Summary: "Part two."},
	}

	facts := m.Merge(context.Background(), results, "en")
	if facts.Summary != "Part one.\n\nPart two." {
		t.Fatalf("expected concatenated fallback, got %q", facts.Summary)
	}
}

func TestMergeEmptyInput(t *testing.T) {
	m := NewMerger(nil, DefaultSimilarityThreshold, nil)

	facts := m.Merge(context.Background(), nil, "en")
	if facts == nil {
		t.Fatalf("merge must never return nil")
	}
	if facts.Summary != "" || len(facts.Decisions) != 0 || len(facts.Actions) != 0 {
		t.Fatalf("empty input must yield empty facts, got %+v", facts)
	}
}
