package document

import (
	"fmt"
	"strings"

	"github.com/ternarybob/hansard/internal/models"
)

// Flatten renders an ordered segment sequence as plain transcript text
// suitable for chunked summarization. Rendering is deterministic: the
// same segments always produce the same text.
func Flatten(segments []models.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		switch seg.Kind {
		case models.SegmentSectionHeading:
			b.WriteString("## ")
			b.WriteString(seg.Text)
		case models.SegmentTimestamp:
			b.WriteString("[")
			b.WriteString(seg.Text)
			b.WriteString("]")
		case models.SegmentLanguageTag:
			b.WriteString("(")
			b.WriteString(seg.Text)
			b.WriteString(")")
		case models.SegmentSpeech:
			if seg.SpeakerName != "" {
				if seg.Affiliation != "" {
					b.WriteString(fmt.Sprintf("%s (%s): ", seg.SpeakerName, seg.Affiliation))
				} else {
					b.WriteString(seg.SpeakerName)
					b.WriteString(": ")
				}
			}
			b.WriteString(seg.Text)
		default:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
