package entities

import (
	"fmt"
	"strings"
)

// TranscriptSegment is a single utterance of the source transcript.
// Speaker is empty when diarization did not attribute the utterance.
type TranscriptSegment struct {
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`
	Start   float64 `json:"start,omitempty"`
	End     float64 `json:"end,omitempty"`
}

// Chunk is a contiguous window of transcript segments sized for a
// single model call. OverlapWithPrevious is the number of leading
// segments repeated from the tail of the previous chunk.
type Chunk struct {
	Index               int
	Segments            []TranscriptSegment
	TokenCount          int
	OverlapWithPrevious int
}

// NewSegments returns the segments unique to this chunk, excluding
// the overlap carried over from the previous one.
func (c Chunk) NewSegments() []TranscriptSegment {
	if c.OverlapWithPrevious >= len(c.Segments) {
		return nil
	}
	return c.Segments[c.OverlapWithPrevious:]
}

// Text renders the chunk as speaker-attributed lines for prompting.
func (c Chunk) Text() string {
	var b strings.Builder
	for i, seg := range c.Segments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if seg.Speaker != "" {
			b.WriteString(fmt.Sprintf("%s: %s", seg.Speaker, seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// MeetingMetadata carries caller-supplied facts about the meeting.
// Fields present here take precedence over anything the model infers.
type MeetingMetadata struct {
	Title        string   `json:"title,omitempty"`
	Date         string   `json:"date,omitempty"`
	Location     string   `json:"location,omitempty"`
	Organizer    string   `json:"organizer,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Agenda       []string `json:"agenda,omitempty"`
}
