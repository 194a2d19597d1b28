package domain

import "time"

// Answer is the final pipeline output for a single query.
type Answer struct {
	Text       string
	Confidence float64
	Source     SourceTag
	QueryType  QueryType
	Elapsed    time.Duration
}

// RetrievalResult pairs a stored document with its query similarity.
// Transient: produced per search call, never persisted.
type RetrievalResult struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float64
}
