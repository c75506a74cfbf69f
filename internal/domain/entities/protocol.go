package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Participant is a meeting attendee listed in the protocol.
type Participant struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// AgendaItem is one topic of the meeting agenda.
type AgendaItem struct {
	Title    string `json:"title"`
	Notes    string `json:"notes,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// ProtocolMetadata is the header block of a protocol document.
type ProtocolMetadata struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Location  string `json:"location,omitempty"`
	Organizer string `json:"organizer,omitempty"`
	Language  string `json:"language,omitempty"`
}

// Protocol is the final structured meeting document produced by the
// pipeline. Error carries a note about chunks that failed extraction;
// the document is still usable when it is set.
type Protocol struct {
	ID           uuid.UUID        `json:"id"`
	Metadata     ProtocolMetadata `json:"metadata"`
	Participants []Participant    `json:"participants"`
	AgendaItems  []AgendaItem     `json:"agenda_items"`
	Summary      string           `json:"summary"`
	Decisions    []Decision       `json:"decisions"`
	ActionItems  []Action         `json:"action_items"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewProtocol returns an empty protocol with identity and timestamp set.
func NewProtocol() *Protocol {
	return &Protocol{
		ID:           uuid.New(),
		Participants: []Participant{},
		AgendaItems:  []AgendaItem{},
		Decisions:    []Decision{},
		ActionItems:  []Action{},
		CreatedAt:    time.Now().UTC(),
	}
}

// ProtocolRecord is the persisted form of a protocol. The full
// document is stored as JSONB; the columns exist for lookups.
type ProtocolRecord struct {
	ID       uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RunID    uuid.UUID      `json:"run_id" gorm:"type:uuid;not null;uniqueIndex"`
	Title    string         `json:"title" gorm:"type:varchar(500)"`
	Date     string         `json:"date" gorm:"type:varchar(10);index"`
	Language string         `json:"language" gorm:"type:varchar(10)"`
	Document datatypes.JSON `json:"document" gorm:"type:jsonb;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the default gorm table name.
func (ProtocolRecord) TableName() string {
	return "protocols"
}
