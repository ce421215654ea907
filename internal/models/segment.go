package models

// SegmentKind identifies one typed unit of structured document content.
type SegmentKind string

const (
	// SegmentSectionHeading marks a section or debate heading
	SegmentSectionHeading SegmentKind = "section-heading"
	// SegmentSpeech is an attributed contribution from a speaker
	SegmentSpeech SegmentKind = "speech"
	// SegmentTimestamp is a procedural time marker
	SegmentTimestamp SegmentKind = "timestamp"
	// SegmentLanguageTag marks a change of language in the source
	SegmentLanguageTag SegmentKind = "language-tag"
)

// Segment is one unit of structured content extracted from a source document.
// Segments preserve source document order; that ordering is the structurer's
// sole correctness contract.
type Segment struct {
	Kind        SegmentKind `json:"kind"`
	SpeakerName string      `json:"speaker_name,omitempty"` // Set only for speech segments with known speakers
	Affiliation string      `json:"affiliation,omitempty"`  // Party/constituency, split out of the speaker label
	Text        string      `json:"text"`                   // Possibly empty for pure markers
}
