package protocol

import "encoding/json"

// CreateProtocolRequest starts a new pipeline run. Either a
// transcript payload or an audio URL to transcribe must be given.
type CreateProtocolRequest struct {
	Transcript json.RawMessage `json:"transcript,omitempty" validate:"required_without=AudioURL"`
	AudioURL   string          `json:"audio_url,omitempty" validate:"omitempty,url"`

	// Optional meeting facts; they override anything the model infers.
	Language     string   `json:"language,omitempty"`
	Filename     string   `json:"filename,omitempty"`
	Title        string   `json:"title,omitempty"`
	Date         string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Location     string   `json:"location,omitempty"`
	Organizer    string   `json:"organizer,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Agenda       []string `json:"agenda,omitempty"`
}
