package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaptinlin/jsonschema"
	"go.uber.org/zap"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// Refiner turns the consolidated facts into the final protocol
// document. The model output must satisfy the protocol schema;
// invalid responses are sent back with the validation errors until
// the attempt budget runs out.
type Refiner struct {
	inv    *invoker
	schema *jsonschema.Schema
	logger *zap.Logger
}

func NewRefiner(client ModelClient, maxAttempts int, callTimeout time.Duration, logger *zap.Logger) (*Refiner, error) {
	schema, err := protocolSchema()
	if err != nil {
		return nil, err
	}
	return &Refiner{
		inv:    newInvoker(client, maxAttempts, callTimeout, logger),
		schema: schema,
		logger: logger,
	}, nil
}

// Refine produces a schema-valid protocol from the facts, with the
// caller-supplied metadata taking precedence over anything the model
// fills in.
func (r *Refiner) Refine(ctx context.Context, facts *entities.ConsolidatedFacts, meta entities.MeetingMetadata, language string) (*entities.Protocol, error) {
	user, err := refineInput(facts, meta, language)
	if err != nil {
		return nil, &RefinementError{Attempts: 0, Err: err}
	}

	var protocol *entities.Protocol
	err = r.inv.invokeJSON(ctx, refinePrompt(language), user, func(raw string) error {
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return fmt.Errorf("response is not a JSON object: %w", err)
		}
		if err := validateProtocolDocument(r.schema, doc); err != nil {
			return err
		}
		protocol = buildProtocol(doc, meta, language)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RefinementError{Attempts: r.inv.maxAttempts, Err: err}
	}

	if r.logger != nil {
		r.logger.Info("📝 Protocol refined",
			zap.String("title", protocol.Metadata.Title),
			zap.Int("decisions", len(protocol.Decisions)),
			zap.Int("action_items", len(protocol.ActionItems)))
	}
	return protocol, nil
}

// refineInput renders the facts and known metadata as the user
// message for the refinement prompt.
func refineInput(facts *entities.ConsolidatedFacts, meta entities.MeetingMetadata, language string) (string, error) {
	payload := map[string]interface{}{
		"facts": facts,
		"meeting_info": map[string]interface{}{
			"title":        meta.Title,
			"date":         meta.Date,
			"location":     meta.Location,
			"organizer":    meta.Organizer,
			"participants": meta.Participants,
			"agenda":       meta.Agenda,
		},
		"language": language,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding refine input: %w", err)
	}
	return string(b), nil
}

// buildProtocol folds a schema-valid document into the protocol
// entity. Caller-supplied metadata overrides the model's.
func buildProtocol(doc map[string]interface{}, meta entities.MeetingMetadata, language string) *entities.Protocol {
	p := entities.NewProtocol()

	if md, ok := doc["metadata"].(map[string]interface{}); ok {
		p.Metadata = entities.ProtocolMetadata{
			Title:     firstTrimmed(md, "title"),
			Date:      firstTrimmed(md, "date"),
			Location:  firstTrimmed(md, "location"),
			Organizer: firstTrimmed(md, "organizer"),
			Language:  firstTrimmed(md, "language"),
		}
	}
	if meta.Title != "" {
		p.Metadata.Title = meta.Title
	}
	if meta.Date != "" {
		p.Metadata.Date = meta.Date
	}
	if meta.Location != "" {
		p.Metadata.Location = meta.Location
	}
	if meta.Organizer != "" {
		p.Metadata.Organizer = meta.Organizer
	}
	if language != "" {
		p.Metadata.Language = language
	}

	p.Participants = normalizeParticipants(doc["participants"])
	if len(p.Participants) == 0 {
		for _, name := range meta.Participants {
			p.Participants = append(p.Participants, entities.Participant{Name: name})
		}
	}

	p.AgendaItems = normalizeAgendaItems(doc["agenda_items"])
	if len(p.AgendaItems) == 0 {
		for _, title := range meta.Agenda {
			p.AgendaItems = append(p.AgendaItems, entities.AgendaItem{Title: title})
		}
	}

	if summary, ok := doc["summary"].(string); ok {
		p.Summary = summary
	}
	p.Decisions = normalizeDecisions(doc["decisions"])

	actions := doc["action_items"]
	if actions == nil {
		actions = doc["actions"]
	}
	p.ActionItems = normalizeActions(actions)

	return p
}
