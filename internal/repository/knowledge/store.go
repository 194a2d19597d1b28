// Package knowledge implements the in-memory therapeutic document store
// with capacity-bounded ingestion and linear cosine similarity search.
package knowledge

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wellspring-cloud/wellspring/internal/domain"
	domdoc "github.com/wellspring-cloud/wellspring/internal/domain/knowledge"
)

// defaultMinSimilarity is the floor applied when a caller passes a negative one.
const defaultMinSimilarity = 0.1

// Store holds therapeutic documents and their embedding vectors.
//
// Each record inlines its own vector, so content and embedding are always
// written (and removed) as one unit. A single RWMutex guards the collection:
// searches share the read lock, writes are exclusive, and a document becomes
// visible to search only after its full record is appended.
//
// Search is a linear scan. The capacity bound is tens of documents, so O(n)
// per query beats carrying an index.
type Store struct {
	mu       sync.RWMutex
	docs     []domdoc.Document // insertion order
	index    map[string]int    // id -> position in docs
	dim      int               // embedding dimension, fixed once known
	capacity int

	embedder domain.Embedder
	logger   *zap.Logger
}

// New creates a Store. dim may be 0, in which case the dimension is pinned by
// the first successfully embedded document and enforced from then on.
func New(embedder domain.Embedder, capacity, dim int, logger *zap.Logger) *Store {
	return &Store{
		index:    make(map[string]int),
		dim:      dim,
		capacity: capacity,
		embedder: embedder,
		logger:   logger,
	}
}

// Add embeds content and stores it as a new document.
// Fails with domain.ErrCapacityExceeded when the store is full and with
// domain.ErrEmbeddingFailed when the embedding capability fails or returns a
// vector of the wrong dimension.
func (s *Store) Add(ctx context.Context, content string, metadata map[string]string) (string, error) {
	// Cheap pre-check before paying for an embedding. The authoritative
	// check runs again inside the critical section below.
	if s.Count() >= s.capacity {
		return "", fmt.Errorf("%d documents: %w", s.capacity, domain.ErrCapacityExceeded)
	}

	id := "therapy_" + uuid.NewString()
	doc, err := domdoc.New(id, content, metadata)
	if err != nil {
		return "", fmt.Errorf("new document: %w", err)
	}

	vec, err := s.embedText(ctx, content)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.docs) >= s.capacity {
		return "", fmt.Errorf("%d documents: %w", s.capacity, domain.ErrCapacityExceeded)
	}
	if err := s.adoptDimLocked(vec); err != nil {
		return "", err
	}

	s.index[id] = len(s.docs)
	s.docs = append(s.docs, doc.WithVector(vec))

	s.logger.Info("Added therapeutic document",
		zap.String("doc_id", id),
		zap.Int("store_size", len(s.docs)),
	)
	return id, nil
}

// Search embeds the query and returns documents with similarity >= minSimilarity,
// sorted descending (ties keep insertion order), truncated to limit.
// An empty store or a failed query embedding yields an empty slice, never an error.
func (s *Store) Search(ctx context.Context, query string, limit int, minSimilarity float64) []domain.RetrievalResult {
	if s.Count() == 0 {
		return nil
	}
	if minSimilarity < 0 {
		minSimilarity = defaultMinSimilarity
	}

	vec, err := s.embedText(ctx, query)
	if err != nil {
		s.logger.Error("Query embedding failed, returning no results", zap.Error(err))
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.RetrievalResult, 0, len(s.docs))
	for i := range s.docs {
		doc := &s.docs[i]
		sim := domain.CosineSimilarity(vec, doc.Vector())
		if sim >= minSimilarity {
			results = append(results, domain.RetrievalResult{
				ID:         doc.ID(),
				Content:    doc.Content(),
				Metadata:   doc.Metadata(),
				Similarity: sim,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Get returns a stored document by id.
func (s *Store) Get(id string) (domdoc.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return domdoc.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return s.docs[pos], nil
}

// Update replaces a document's content (and optionally metadata), regenerating
// its embedding. Content and vector are swapped atomically under the write lock.
func (s *Store) Update(ctx context.Context, id, content string, metadata map[string]string) error {
	s.mu.RLock()
	_, ok := s.index[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}

	vec, err := s.embedText(ctx, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		// Removed between the embed and the lock.
		return fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	if err := s.adoptDimLocked(vec); err != nil {
		return err
	}

	s.docs[pos] = s.docs[pos].WithContent(content, metadata, vec)

	s.logger.Info("Updated therapeutic document", zap.String("doc_id", id))
	return nil
}

// Remove deletes a document and its vector as one unit.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}

	s.docs = append(s.docs[:pos], s.docs[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.docs); i++ {
		s.index[s.docs[i].ID()] = i
	}

	s.logger.Info("Removed therapeutic document", zap.String("doc_id", id))
	return nil
}

// Similar returns the ranked neighbors of a stored document, excluding itself.
func (s *Store) Similar(id string, limit int) ([]domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	ref := s.docs[pos].Vector()

	results := make([]domain.RetrievalResult, 0, len(s.docs)-1)
	for i := range s.docs {
		doc := &s.docs[i]
		if doc.ID() == id {
			continue
		}
		results = append(results, domain.RetrievalResult{
			ID:         doc.ID(),
			Content:    doc.Content(),
			Metadata:   doc.Metadata(),
			Similarity: domain.CosineSimilarity(ref, doc.Vector()),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Stats summarizes the store contents for the stats endpoint.
type Stats struct {
	TotalDocuments int
	Capacity       int
	VectorDim      int
	Categories     map[string]int
	UrgencyLevels  map[string]int
}

// GetStats returns store statistics, including category and urgency
// distributions derived from document metadata.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalDocuments: len(s.docs),
		Capacity:       s.capacity,
		VectorDim:      s.dim,
		Categories:     make(map[string]int),
		UrgencyLevels:  make(map[string]int),
	}
	for i := range s.docs {
		md := s.docs[i].Metadata()
		category := md["category"]
		if category == "" {
			category = "uncategorized"
		}
		urgency := md["urgency"]
		if urgency == "" {
			urgency = "normal"
		}
		stats.Categories[category]++
		stats.UrgencyLevels[urgency]++
	}
	return stats
}

// embedText runs the embedding capability and validates the vector dimension.
func (s *Store) embedText(ctx context.Context, text string) ([]float32, error) {
	res, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w: %w", domain.ErrEmbeddingFailed, err)
	}
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding: %w", domain.ErrEmbeddingFailed)
	}

	s.mu.RLock()
	dim := s.dim
	s.mu.RUnlock()
	if dim > 0 && len(res.Embedding) != dim {
		return nil, fmt.Errorf("embedding dimension %d, want %d: %w: %w",
			len(res.Embedding), dim, domain.ErrVectorDimMismatch, domain.ErrEmbeddingFailed)
	}
	return res.Embedding, nil
}

// adoptDimLocked pins the store dimension on first write and re-validates
// under the write lock. Callers must hold mu.
func (s *Store) adoptDimLocked(vec []float32) error {
	if s.dim == 0 {
		s.dim = len(vec)
		return nil
	}
	if len(vec) != s.dim {
		return fmt.Errorf("embedding dimension %d, want %d: %w: %w",
			len(vec), s.dim, domain.ErrVectorDimMismatch, domain.ErrEmbeddingFailed)
	}
	return nil
}
