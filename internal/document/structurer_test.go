package document

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/models"
)

func testLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func speechNode(speaker, text string) *Node {
	return &Node{
		Type:     "speech",
		Attrs:    map[string]string{"speaker": speaker},
		Children: []*Node{{Text: text}},
	}
}

func TestStructure_MissingRoot(t *testing.T) {
	s := NewStructurer(testLogger())

	_, err := s.Structure(nil)
	if !errors.Is(err, ErrMissingRoot) {
		t.Fatalf("expected ErrMissingRoot, got %v", err)
	}
}

func TestStructure_PreservesDocumentOrder(t *testing.T) {
	root := &Node{
		Type: "debate",
		Children: []*Node{
			{Type: "major-heading", Children: []*Node{{Text: "Question Time"}}},
			{Type: "timestamp", Children: []*Node{{Text: "14:02"}}},
			speechNode("Ms Wong:", "I move the motion."),
			speechNode("Mr Speaker:", "The question is agreed to."),
		},
	}

	s := NewStructurer(testLogger())
	segments, err := s.Structure(root)
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	wantKinds := []models.SegmentKind{
		models.SegmentSectionHeading,
		models.SegmentTimestamp,
		models.SegmentSpeech,
		models.SegmentSpeech,
	}
	if len(segments) != len(wantKinds) {
		t.Fatalf("got %d segments, want %d", len(segments), len(wantKinds))
	}
	for i, kind := range wantKinds {
		if segments[i].Kind != kind {
			t.Errorf("segment[%d].Kind = %q, want %q", i, segments[i].Kind, kind)
		}
	}
	if segments[2].SpeakerName != "Ms Wong" {
		t.Errorf("SpeakerName = %q, want %q", segments[2].SpeakerName, "Ms Wong")
	}
}

func TestStructure_Determinism(t *testing.T) {
	root := &Node{
		Type: "debate",
		Children: []*Node{
			{Type: "h2", Children: []*Node{{Text: "Second Reading"}}},
			speechNode("Dr Chalmers (Treasurer):", "I present the bill."),
		},
	}

	s := NewStructurer(testLogger())
	first, err := s.Structure(root)
	if err != nil {
		t.Fatalf("first Structure failed: %v", err)
	}
	second, err := s.Structure(root)
	if err != nil {
		t.Fatalf("second Structure failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("structuring is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestStructure_RecursesIntoNestedWrappers(t *testing.T) {
	// Real transcripts nest speeches several levels inside procedural
	// wrapper elements; every container must be recursed into.
	root := &Node{
		Type: "hansard",
		Children: []*Node{
			{Type: "session", Children: []*Node{
				{Type: "chamber-proceedings", Children: []*Node{
					{Type: "business-item", Children: []*Node{
						speechNode("Senator Payne:", "Deeply nested contribution."),
					}},
				}},
			}},
		},
	}

	s := NewStructurer(testLogger())
	segments, err := s.Structure(root)
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].SpeakerName != "Senator Payne" {
		t.Errorf("SpeakerName = %q, want %q", segments[0].SpeakerName, "Senator Payne")
	}
}

func TestStructure_DropsEmptySpeech(t *testing.T) {
	root := &Node{
		Type: "debate",
		Children: []*Node{
			speechNode("Mr Albanese:", "   "),
			speechNode("Ms Ley:", "A substantive remark."),
		},
	}

	s := NewStructurer(testLogger())
	segments, err := s.Structure(root)
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1 (empty speech must be dropped)", len(segments))
	}
	if segments[0].SpeakerName != "Ms Ley" {
		t.Errorf("SpeakerName = %q, want %q", segments[0].SpeakerName, "Ms Ley")
	}
}

func TestStructure_MalformedSpeakerDoesNotAbort(t *testing.T) {
	root := &Node{
		Type: "debate",
		Children: []*Node{
			{Type: "speech", Children: []*Node{{Text: "An unattributed interjection."}}},
			speechNode("Mr Bandt:", "An attributed one."),
		},
	}

	s := NewStructurer(testLogger())
	segments, err := s.Structure(root)
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].SpeakerName != "" {
		t.Errorf("expected unset SpeakerName for malformed node, got %q", segments[0].SpeakerName)
	}
	if segments[1].SpeakerName != "Mr Bandt" {
		t.Errorf("SpeakerName = %q, want %q", segments[1].SpeakerName, "Mr Bandt")
	}
}

func TestStructure_SpeakerFromChildElement(t *testing.T) {
	root := &Node{
		Type: "debate",
		Children: []*Node{
			{Type: "speech", Children: []*Node{
				{Type: "talker", Children: []*Node{{Text: "Senator Gallagher (Minister for Finance):"}}},
				{Text: "The answer is yes."},
			}},
		},
	}

	s := NewStructurer(testLogger())
	segments, err := s.Structure(root)
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	seg := segments[0]
	if seg.SpeakerName != "Senator Gallagher" {
		t.Errorf("SpeakerName = %q, want %q", seg.SpeakerName, "Senator Gallagher")
	}
	if seg.Affiliation != "Minister for Finance" {
		t.Errorf("Affiliation = %q, want %q", seg.Affiliation, "Minister for Finance")
	}
	if seg.Text != "The answer is yes." {
		t.Errorf("Text = %q, want %q (speaker label must not leak into body)", seg.Text, "The answer is yes.")
	}
}

func TestSplitSpeakerLabel(t *testing.T) {
	tests := []struct {
		label           string
		wantName        string
		wantAffiliation string
	}{
		{"Ms Wong:", "Ms Wong", ""},
		{"Mr Speaker.", "Mr Speaker", ""},
		{"Dr Chalmers (Treasurer):", "Dr Chalmers", "Treasurer"},
		{"Senator Payne (Liberal, NSW)", "Senator Payne", "Liberal, NSW"},
		{"  The PRESIDENT:  ", "The PRESIDENT", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			name, affiliation := splitSpeakerLabel(tt.label)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if affiliation != tt.wantAffiliation {
				t.Errorf("affiliation = %q, want %q", affiliation, tt.wantAffiliation)
			}
		})
	}
}
