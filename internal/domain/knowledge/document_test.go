package knowledge

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	doc, err := New("therapy_1", "Box breathing: inhale for 4 counts.", map[string]string{"category": "anxiety"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "therapy_1" {
		t.Errorf("ID = %q", doc.ID())
	}
	if doc.Vector() != nil {
		t.Error("new document should have no vector")
	}
	if doc.CreatedAt().IsZero() {
		t.Error("createdAt not set")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		content string
	}{
		{"empty id", "", "content"},
		{"empty content", "id", ""},
		{"oversized content", "id", strings.Repeat("x", MaxContentSize+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.id, tc.content, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_ClonesMetadata(t *testing.T) {
	md := map[string]string{"category": "stress"}
	doc, err := New("id", "content", md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md["category"] = "mutated"
	if doc.Metadata()["category"] != "stress" {
		t.Error("metadata not cloned on construction")
	}
}

func TestWithContent_KeepsMetadataWhenNil(t *testing.T) {
	doc, _ := New("id", "old", map[string]string{"category": "sleep"})
	updated := doc.WithContent("new", nil, []float32{1, 2})
	if updated.Metadata()["category"] != "sleep" {
		t.Error("nil metadata should keep existing metadata")
	}
	if updated.Content() != "new" {
		t.Errorf("content = %q", updated.Content())
	}
	if len(updated.Vector()) != 2 {
		t.Error("vector not replaced")
	}
}
