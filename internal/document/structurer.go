package document

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/models"
)

// ErrMissingRoot is returned when a document tree lacks its expected root
// container. Fatal for the current document; never retried automatically.
var ErrMissingRoot = errors.New("document root container not found")

// speaker label attributes probed on speech nodes, in priority order
var speakerAttrs = []string{"speaker", "by", "name"}

// child element names that carry the speaker label when no attribute does
var speakerChildTypes = map[string]bool{
	"talker": true,
	"from":   true,
	"name":   true,
}

// affiliationPattern matches a trailing parenthesised affiliation in a
// speaker label, e.g. "Ms Wong (Leader of the Government in the Senate)"
var affiliationPattern = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// Structurer walks a parsed document tree and emits an ordered sequence
// of typed segments. Output ordering is the sole correctness contract:
// no re-sorting, no deduplication beyond dropping empty speech segments.
type Structurer struct {
	kinds  map[string]models.SegmentKind
	logger arbor.ILogger
}

// NewStructurer creates a structurer with the default recognized node
// types for parliamentary transcript markup.
func NewStructurer(logger arbor.ILogger) *Structurer {
	return &Structurer{
		kinds: map[string]models.SegmentKind{
			"h1":            models.SegmentSectionHeading,
			"h2":            models.SegmentSectionHeading,
			"h3":            models.SegmentSectionHeading,
			"h4":            models.SegmentSectionHeading,
			"major-heading": models.SegmentSectionHeading,
			"minor-heading": models.SegmentSectionHeading,
			"speech":        models.SegmentSpeech,
			"talk":          models.SegmentSpeech,
			"question":      models.SegmentSpeech,
			"answer":        models.SegmentSpeech,
			"timestamp":     models.SegmentTimestamp,
			"recordedtime":  models.SegmentTimestamp,
			"language":      models.SegmentLanguageTag,
		},
		logger: logger,
	}
}

// WithKinds overrides the recognized node-type mapping
func (s *Structurer) WithKinds(kinds map[string]models.SegmentKind) *Structurer {
	s.kinds = kinds
	return s
}

// Structure traverses the tree depth-first, preserving document order,
// and emits one segment per recognized node. Unrecognized container
// nodes are recursed into regardless of nesting depth; real transcripts
// nest speeches several levels inside procedural wrapper elements.
func (s *Structurer) Structure(root *Node) ([]models.Segment, error) {
	if root == nil {
		return nil, ErrMissingRoot
	}

	segments := make([]models.Segment, 0, 64)
	s.walk(root, &segments)

	s.logger.Debug().
		Int("segment_count", len(segments)).
		Msg("Document structured")

	return segments, nil
}

func (s *Structurer) walk(n *Node, segments *[]models.Segment) {
	if n.IsText() {
		return
	}

	kind, recognized := s.kinds[n.Type]
	if !recognized {
		for _, child := range n.Children {
			s.walk(child, segments)
		}
		return
	}

	switch kind {
	case models.SegmentSpeech:
		if seg, ok := s.speechSegment(n); ok {
			*segments = append(*segments, seg)
		}
	default:
		*segments = append(*segments, models.Segment{
			Kind: kind,
			Text: n.InnerText(),
		})
	}
}

// speechSegment builds a speech segment, extracting the speaker label
// from attributes or a dedicated child element. Ambiguous or missing
// speaker metadata leaves SpeakerName unset rather than failing the
// traversal; a single malformed node must not abort structuring of the
// rest of the document. Speeches that are empty after trimming are
// dropped, signalled by ok == false.
func (s *Structurer) speechSegment(n *Node) (models.Segment, bool) {
	var label string
	for _, attr := range speakerAttrs {
		if v := n.Attr(attr); v != "" {
			label = v
			break
		}
	}

	// Fall back to a speaker child element, excluding it from the body text
	body := n.Children
	if label == "" {
		for i, child := range n.Children {
			if !child.IsText() && speakerChildTypes[child.Type] {
				label = child.InnerText()
				body = make([]*Node, 0, len(n.Children)-1)
				body = append(body, n.Children[:i]...)
				body = append(body, n.Children[i+1:]...)
				break
			}
		}
	}

	text := strings.TrimSpace((&Node{Type: n.Type, Children: body}).InnerText())
	if text == "" {
		return models.Segment{}, false
	}

	name, affiliation := splitSpeakerLabel(label)
	return models.Segment{
		Kind:        models.SegmentSpeech,
		SpeakerName: name,
		Affiliation: affiliation,
		Text:        text,
	}, true
}

// splitSpeakerLabel normalizes a raw speaker label: trailing punctuation
// (a colon in most gazetted transcripts) is stripped, and an embedded
// affiliation such as "(Minister for Finance)" is removed from the name
// and reported separately.
func splitSpeakerLabel(label string) (name, affiliation string) {
	name = strings.TrimSpace(label)
	name = strings.TrimRight(name, ":.— ")
	name = strings.TrimSpace(name)

	if match := affiliationPattern.FindStringSubmatch(name); match != nil {
		affiliation = strings.TrimSpace(match[1])
		name = strings.TrimSpace(affiliationPattern.ReplaceAllString(name, ""))
	}

	return name, affiliation
}
