package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	apperrors "github.com/DIZ-admin/meeting-minutes-generator-v2/errors"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/usecase/pipeline"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/validator"
)

// fakeService is a canned pipeline.Service for handler tests.
type fakeService struct {
	run      *entities.PipelineRun
	record   *entities.ProtocolRecord
	started  []pipeline.StartRunInput
	startErr error
	getErr   error
	cancel   error
}

func (f *fakeService) StartRun(_ context.Context, input pipeline.StartRunInput) (*entities.PipelineRun, error) {
	f.started = append(f.started, input)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.run, nil
}

func (f *fakeService) GetRun(_ context.Context, id uuid.UUID) (*entities.PipelineRun, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.run, nil
}

func (f *fakeService) ListRuns(_ context.Context, limit int) ([]entities.PipelineRun, error) {
	if f.run == nil {
		return []entities.PipelineRun{}, nil
	}
	return []entities.PipelineRun{*f.run}, nil
}

func (f *fakeService) GetProtocol(_ context.Context, runID uuid.UUID) (*entities.ProtocolRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.record, nil
}

func (f *fakeService) CancelRun(_ context.Context, id uuid.UUID) error {
	return f.cancel
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validator.New()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func pendingRun() *entities.PipelineRun {
	return &entities.PipelineRun{
		ID:       uuid.New(),
		Status:   entities.RunStatusPending,
		Progress: 0.01,
		Language: "en",
	}
}

func TestCreateFromTranscript(t *testing.T) {
	svc := &fakeService{run: pendingRun()}
	h := NewProtocolHandler(svc, nil, nil)

	body := `{"transcript": [{"speaker": "Anna", "text": "Budget approved."}], "title": "Board Meeting", "date": "2026-08-28"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/protocols", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.started) != 1 {
		t.Fatalf("expected one started run, got %d", len(svc.started))
	}
	input := svc.started[0]
	if len(input.Segments) != 1 || input.Segments[0].Speaker != "Anna" {
		t.Fatalf("transcript not parsed into segments: %+v", input.Segments)
	}
	if input.Metadata.Title != "Board Meeting" || input.Metadata.Date != "2026-08-28" {
		t.Fatalf("metadata lost: %+v", input.Metadata)
	}
}

func TestCreateSniffsFilenameMetadata(t *testing.T) {
	svc := &fakeService{run: pendingRun()}
	h := NewProtocolHandler(svc, nil, nil)

	body := `{"transcript": "Anna: Budget approved.", "filename": "2026-08-28_board_meeting.txt"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/protocols", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	meta := svc.started[0].Metadata
	if meta.Title != "board meeting" || meta.Date != "2026-08-28" {
		t.Fatalf("filename metadata not sniffed: %+v", meta)
	}
}

func TestCreateRejectsEmptyRequest(t *testing.T) {
	svc := &fakeService{run: pendingRun()}
	h := NewProtocolHandler(svc, nil, nil)

	c, rec := newTestContext(t, http.MethodPost, "/v1/protocols", `{}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.started) != 0 {
		t.Fatalf("invalid request must not start a run")
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc := &fakeService{run: pendingRun()}
	h := NewProtocolHandler(svc, nil, nil)

	body := `{"transcript": "hello", "date": "28.08.2026"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/protocols", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAudioWithoutTranscriber(t *testing.T) {
	svc := &fakeService{run: pendingRun()}
	h := NewProtocolHandler(svc, nil, nil)

	body := `{"audio_url": "https://example.com/meeting.mp3"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/protocols", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetRun(t *testing.T) {
	run := pendingRun()
	svc := &fakeService{run: run}
	h := NewProtocolHandler(svc, nil, nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/protocols/"+run.ID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(run.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), run.ID.String()) {
		t.Fatalf("response is missing the run id: %s", rec.Body.String())
	}
}

func TestGetRunBadID(t *testing.T) {
	svc := &fakeService{run: pendingRun()}
	h := NewProtocolHandler(svc, nil, nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/protocols/not-a-uuid", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetRunNotFound(t *testing.T) {
	svc := &fakeService{getErr: apperrors.ErrRunNotFound(uuid.New().String())}
	h := NewProtocolHandler(svc, nil, nil)

	id := uuid.New().String()
	c, rec := newTestContext(t, http.MethodGet, "/v1/protocols/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetMarkdown(t *testing.T) {
	doc, err := json.Marshal(map[string]interface{}{
		"metadata": map[string]string{"title": "Board Meeting", "date": "2026-08-28"},
		"summary":  "Budget approved.",
	})
	if err != nil {
		t.Fatalf("encoding document: %v", err)
	}

	runID := uuid.New()
	svc := &fakeService{record: &entities.ProtocolRecord{
		ID:       uuid.New(),
		RunID:    runID,
		Document: datatypes.JSON(doc),
	}}
	h := NewProtocolHandler(svc, nil, nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/protocols/"+runID.String()+"/markdown", "")
	c.SetParamNames("id")
	c.SetParamValues(runID.String())

	if err := h.GetMarkdown(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("wrong content type: %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "# Board Meeting") {
		t.Fatalf("markdown not rendered: %s", rec.Body.String())
	}
}

func TestCancelConflict(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{
		run:    &entities.PipelineRun{ID: id, Status: entities.RunStatusCompleted},
		cancel: apperrors.ErrRunNotCancellable(id.String(), "completed"),
	}
	h := NewProtocolHandler(svc, nil, nil)

	c, rec := newTestContext(t, http.MethodPost, "/v1/protocols/"+id.String()+"/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.Cancel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}
