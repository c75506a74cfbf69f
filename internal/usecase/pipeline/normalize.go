package pipeline

import (
	"strings"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// Model output is tolerated in several shapes: list items may be
// plain strings or objects with aliased keys ("what" vs "text",
// "who" vs "assignee"). The normalize helpers fold everything into
// the canonical entities.

func normalizeDecisions(raw interface{}) []entities.Decision {
	items, ok := raw.([]interface{})
	if !ok {
		return []entities.Decision{}
	}
	decisions := make([]entities.Decision, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if text := strings.TrimSpace(v); text != "" {
				decisions = append(decisions, entities.Decision{Text: text})
			}
		case map[string]interface{}:
			d := entities.Decision{
				Text:    firstTrimmed(v, "text", "decision", "description"),
				Context: firstTrimmed(v, "context"),
			}
			if d.Text != "" {
				decisions = append(decisions, d)
			}
		}
	}
	return decisions
}

func normalizeActions(raw interface{}) []entities.Action {
	items, ok := raw.([]interface{})
	if !ok {
		return []entities.Action{}
	}
	actions := make([]entities.Action, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if text := strings.TrimSpace(v); text != "" {
				actions = append(actions, entities.Action{Text: text})
			}
		case map[string]interface{}:
			a := entities.Action{
				Text:     firstTrimmed(v, "text", "action", "what", "task", "description"),
				Assignee: firstTrimmed(v, "assignee", "who", "owner"),
				DueDate:  firstTrimmed(v, "due_date", "due", "deadline"),
				Context:  firstTrimmed(v, "context"),
			}
			if a.Text != "" {
				actions = append(actions, a)
			}
		}
	}
	return actions
}

func normalizeParticipants(raw interface{}) []entities.Participant {
	items, ok := raw.([]interface{})
	if !ok {
		return []entities.Participant{}
	}
	participants := make([]entities.Participant, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if name := strings.TrimSpace(v); name != "" {
				participants = append(participants, entities.Participant{Name: name})
			}
		case map[string]interface{}:
			p := entities.Participant{
				Name:  firstTrimmed(v, "name"),
				Role:  firstTrimmed(v, "role"),
				Email: firstTrimmed(v, "email"),
			}
			if p.Name != "" {
				participants = append(participants, p)
			}
		}
	}
	return participants
}

func normalizeAgendaItems(raw interface{}) []entities.AgendaItem {
	items, ok := raw.([]interface{})
	if !ok {
		return []entities.AgendaItem{}
	}
	agenda := make([]entities.AgendaItem, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if title := strings.TrimSpace(v); title != "" {
				agenda = append(agenda, entities.AgendaItem{Title: title})
			}
		case map[string]interface{}:
			a := entities.AgendaItem{
				Title:    firstTrimmed(v, "title", "topic"),
				Notes:    firstTrimmed(v, "notes", "description"),
				Duration: firstTrimmed(v, "duration"),
			}
			if a.Title != "" {
				agenda = append(agenda, a)
			}
		}
	}
	return agenda
}

func firstTrimmed(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
