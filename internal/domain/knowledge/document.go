// Package knowledge holds the therapeutic document aggregate.
package knowledge

import (
	"fmt"
	"time"
)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 16384 // 16KB — techniques are short texts

// Document is a therapeutic document with its embedding vector.
// The vector is set exactly once on ingestion and replaced only by an
// explicit update, which regenerates it together with the content.
type Document struct {
	id        string
	content   string
	metadata  map[string]string
	vector    []float32
	createdAt time.Time
}

// New validates and creates a Document without a vector.
func New(id, content string, metadata map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}

	return Document{
		id:        id,
		content:   content,
		metadata:  cloneMetadata(metadata),
		createdAt: time.Now(),
	}, nil
}

// Reconstruct creates a Document without validation (test and hydration use).
func Reconstruct(id, content string, metadata map[string]string, vector []float32, createdAt time.Time) Document {
	return Document{id: id, content: content, metadata: metadata, vector: vector, createdAt: createdAt}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Content returns the document text.
func (d *Document) Content() string { return d.content }

// Metadata returns the string metadata fields (category, urgency, ...).
func (d *Document) Metadata() map[string]string { return d.metadata }

// Vector returns the embedding vector.
func (d *Document) Vector() []float32 { return d.vector }

// CreatedAt returns the ingestion timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// WithVector returns a copy with the given vector set.
func (d *Document) WithVector(v []float32) Document {
	return Document{
		id: d.id, content: d.content, metadata: d.metadata,
		vector: v, createdAt: d.createdAt,
	}
}

// WithContent returns a copy with new content, metadata, and vector.
// Metadata nil keeps the existing metadata, matching update semantics.
func (d *Document) WithContent(content string, metadata map[string]string, v []float32) Document {
	md := d.metadata
	if metadata != nil {
		md = cloneMetadata(metadata)
	}
	return Document{
		id: d.id, content: content, metadata: md,
		vector: v, createdAt: d.createdAt,
	}
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
