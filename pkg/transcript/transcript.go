// Package transcript parses the transcript formats accepted by the
// API into a normalized segment list.
package transcript

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// Normalized is the canonical parse result.
type Normalized struct {
	Segments []entities.TranscriptSegment
	Language string
}

var (
	diarizedSpeakerRe = regexp.MustCompile(`(?i)^speaker[_\s]?0*(\d+)$`)
	speakerLineRe     = regexp.MustCompile(`^([A-Za-z0-9_][A-Za-z0-9_ .\-]{0,60}):\s+(.+)$`)
)

// textKeys are the object keys treated as a plain-text transcript
// when no segment list is present.
var textKeys = []string{"text", "transcript", "transcription", "content"}

// Parse accepts any of the supported transcript shapes: a bare
// segment array, an object with "segments", a Replicate-style
// {"output": {...}} wrapper, an object with a plain-text key, or
// raw text.
func Parse(data []byte) (*Normalized, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return &Normalized{}, nil
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		// Not JSON, treat as plain text.
		return &Normalized{Segments: FromPlainText(trimmed)}, nil
	}

	switch v := raw.(type) {
	case []interface{}:
		segs, err := parseSegmentList(v)
		if err != nil {
			return nil, err
		}
		return &Normalized{Segments: segs}, nil
	case map[string]interface{}:
		return parseObject(v)
	case string:
		return &Normalized{Segments: FromPlainText(v)}, nil
	default:
		return nil, fmt.Errorf("unsupported transcript payload of type %T", raw)
	}
}

func parseObject(obj map[string]interface{}) (*Normalized, error) {
	// Replicate wraps its result under "output".
	if out, ok := obj["output"].(map[string]interface{}); ok {
		nested, err := parseObject(out)
		if err != nil {
			return nil, err
		}
		if nested.Language == "" {
			nested.Language = stringField(obj, "language")
		}
		return nested, nil
	}

	if list, ok := obj["segments"].([]interface{}); ok {
		segs, err := parseSegmentList(list)
		if err != nil {
			return nil, err
		}
		return &Normalized{
			Segments: segs,
			Language: stringField(obj, "language"),
		}, nil
	}

	for _, key := range textKeys {
		if text := stringField(obj, key); text != "" {
			return &Normalized{
				Segments: FromPlainText(text),
				Language: stringField(obj, "language"),
			}, nil
		}
	}

	return nil, fmt.Errorf("transcript object has neither segments nor a text field")
}

func parseSegmentList(list []interface{}) ([]entities.TranscriptSegment, error) {
	segments := make([]entities.TranscriptSegment, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			if s, ok := item.(string); ok {
				if strings.TrimSpace(s) != "" {
					segments = append(segments, entities.TranscriptSegment{Text: strings.TrimSpace(s)})
				}
				continue
			}
			return nil, fmt.Errorf("segment %d is not an object", i)
		}
		seg := entities.TranscriptSegment{
			Speaker: NormalizeSpeaker(firstString(obj, "speaker", "speaker_name", "name")),
			Text:    strings.TrimSpace(firstString(obj, "text", "content")),
			Start:   numberField(obj, "start"),
			End:     numberField(obj, "end"),
		}
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// FromPlainText splits raw text into segments, one per non-empty
// line, picking up "Name: utterance" speaker prefixes when present.
func FromPlainText(text string) []entities.TranscriptSegment {
	var segments []entities.TranscriptSegment
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := speakerLineRe.FindStringSubmatch(line); m != nil {
			segments = append(segments, entities.TranscriptSegment{
				Speaker: NormalizeSpeaker(m[1]),
				Text:    strings.TrimSpace(m[2]),
			})
			continue
		}
		segments = append(segments, entities.TranscriptSegment{Text: line})
	}
	return segments
}

// NormalizeSpeaker canonicalizes diarization labels, so "SPEAKER_04"
// and "Speaker 4" both become "speaker_4". Other names are returned
// trimmed as-is.
func NormalizeSpeaker(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if m := diarizedSpeakerRe.FindStringSubmatch(name); m != nil {
		return "speaker_" + m[1]
	}
	return name
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := stringField(obj, key); s != "" {
			return s
		}
	}
	return ""
}

func numberField(obj map[string]interface{}, key string) float64 {
	switch v := obj[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
