package transcript

import (
	"regexp"
	"strings"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

var (
	isoDateRe     = regexp.MustCompile(`(\d{4})[-_](\d{2})[-_](\d{2})`)
	compactDateRe = regexp.MustCompile(`(20\d{2})(\d{2})(\d{2})`)
	extRe         = regexp.MustCompile(`\.[A-Za-z0-9]{1,5}$`)
)

// MetadataFromFilename sniffs a meeting date and title out of an
// uploaded file name like "2025-06-12_board_meeting.json".
func MetadataFromFilename(name string) entities.MeetingMetadata {
	var meta entities.MeetingMetadata

	base := name
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	base = extRe.ReplaceAllString(base, "")

	if m := isoDateRe.FindStringSubmatch(base); m != nil {
		meta.Date = m[1] + "-" + m[2] + "-" + m[3]
		base = strings.Replace(base, m[0], "", 1)
	} else if m := compactDateRe.FindStringSubmatch(base); m != nil {
		meta.Date = m[1] + "-" + m[2] + "-" + m[3]
		base = strings.Replace(base, m[0], "", 1)
	}

	title := strings.NewReplacer("_", " ", "-", " ").Replace(base)
	title = strings.Join(strings.Fields(title), " ")
	meta.Title = title
	return meta
}
