package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/DIZ-admin/meeting-minutes-generator-v2/errors"
	protocoldto "github.com/DIZ-admin/meeting-minutes-generator-v2/internal/adapter/dto/protocol"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/usecase/pipeline"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/ai"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/transcript"
)

// Protocol handles the protocol generation endpoints.
type Protocol struct {
	svc         pipeline.Service
	transcriber *ai.Transcriber
	logger      *zap.Logger
}

// NewProtocolHandler creates the handler. transcriber may be nil;
// audio URL requests are then rejected.
func NewProtocolHandler(svc pipeline.Service, transcriber *ai.Transcriber, logger *zap.Logger) *Protocol {
	return &Protocol{
		svc:         svc,
		transcriber: transcriber,
		logger:      logger,
	}
}

// Create starts a pipeline run from a transcript payload or an
// audio URL and returns 202 with the run.
func (h *Protocol) Create(c echo.Context) error {
	var req protocoldto.CreateProtocolRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	segments, language, err := h.resolveSegments(c, &req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meta := requestMetadata(&req)
	run, err := h.svc.StartRun(c.Request().Context(), pipeline.StartRunInput{
		Segments: segments,
		Metadata: meta,
		Language: language,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleAccepted(h.logger, c, protocoldto.NewRunResponse(run))
}

// resolveSegments obtains transcript segments from the request,
// transcribing remote audio when necessary.
func (h *Protocol) resolveSegments(c echo.Context, req *protocoldto.CreateProtocolRequest) ([]entities.TranscriptSegment, string, error) {
	if len(req.Transcript) > 0 {
		parsed, err := transcript.Parse(req.Transcript)
		if err != nil {
			return nil, "", apperrors.ErrTranscriptInvalid(err)
		}
		language := req.Language
		if language == "" {
			language = parsed.Language
		}
		return parsed.Segments, language, nil
	}

	if h.transcriber == nil {
		return nil, "", apperrors.ErrInvalidArgument("audio transcription is not configured")
	}
	segments, err := h.transcriber.TranscribeURL(c.Request().Context(), req.AudioURL, req.Language)
	if err != nil {
		return nil, "", apperrors.ErrModelUnavailable(err)
	}
	return segments, req.Language, nil
}

// List returns recent runs.
func (h *Protocol) List(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("limit must be a number"))
		}
	}

	runs, err := h.svc.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]protocoldto.RunResponse, 0, len(runs))
	for i := range runs {
		resp = append(resp, protocoldto.NewRunResponse(&runs[i]))
	}
	return HandleSuccess(h.logger, c, resp)
}

// Get returns a single run with its current status and progress.
func (h *Protocol) Get(c echo.Context) error {
	id, err := parseRunID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	run, err := h.svc.GetRun(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, protocoldto.NewRunResponse(run))
}

// GetDocument returns the protocol JSON of a completed run.
func (h *Protocol) GetDocument(c echo.Context) error {
	id, err := parseRunID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.svc.GetProtocol(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, protocoldto.NewProtocolResponse(record))
}

// GetMarkdown renders the protocol of a completed run as markdown.
func (h *Protocol) GetMarkdown(c echo.Context) error {
	id, err := parseRunID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.svc.GetProtocol(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var doc entities.Protocol
	if err := json.Unmarshal(record.Document, &doc); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(pipeline.RenderMarkdown(&doc)))
}

// Cancel requests cancellation of a running pipeline.
func (h *Protocol) Cancel(c echo.Context) error {
	id, err := parseRunID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.svc.CancelRun(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id.String(), "status": "cancelling"})
}

func parseRunID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidArgument("id must be a UUID")
	}
	return id, nil
}

// requestMetadata folds explicit fields and filename sniffing into
// the meeting metadata. Explicit fields win.
func requestMetadata(req *protocoldto.CreateProtocolRequest) entities.MeetingMetadata {
	meta := entities.MeetingMetadata{
		Title:        req.Title,
		Date:         req.Date,
		Location:     req.Location,
		Organizer:    req.Organizer,
		Participants: req.Participants,
		Agenda:       req.Agenda,
	}
	if req.Filename != "" {
		sniffed := transcript.MetadataFromFilename(req.Filename)
		if meta.Title == "" {
			meta.Title = sniffed.Title
		}
		if meta.Date == "" {
			meta.Date = sniffed.Date
		}
	}
	return meta
}
