package embcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/wellspring-cloud/wellspring/internal/db"
	"github.com/wellspring-cloud/wellspring/internal/domain"
)

// --- Mocks ---

type fakeStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

type countingEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, TotalTokens: 7}, nil
}

// --- Tests ---

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.5, -1.25, 3}}
	c := New(inner, newFakeStore(), nil, zap.NewNop())
	ctx := context.Background()

	first, err := c.Embed(ctx, "box breathing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 7 {
		t.Errorf("miss should report real token usage, got %d", first.TotalTokens)
	}

	second, err := c.Embed(ctx, "box breathing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit should report zero tokens, got %d", second.TotalTokens)
	}
	for i := range first.Embedding {
		if first.Embedding[i] != second.Embedding[i] {
			t.Fatal("cached vector differs from original")
		}
	}
}

func TestEmbed_DifferentTextsDifferentKeys(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	c := New(inner, newFakeStore(), nil, zap.NewNop())
	ctx := context.Background()

	c.Embed(ctx, "one")
	c.Embed(ctx, "two")
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2", inner.calls)
	}
}

func TestEmbed_StoreGetFailureFallsThrough(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2}}
	s := newFakeStore()
	s.getErr = errors.New("connection refused")
	c := New(inner, s, nil, zap.NewNop())

	res, err := c.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("cache failure must not fail the embed: %v", err)
	}
	if len(res.Embedding) != 2 {
		t.Error("expected inner embedder result")
	}
}

func TestEmbed_StoreSetFailureIgnored(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1}}
	s := newFakeStore()
	s.setErr = errors.New("read-only replica")
	c := New(inner, s, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("set failure must not fail the embed: %v", err)
	}
}

func TestEmbed_InnerErrorPropagates(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("provider down")}
	c := New(inner, newFakeStore(), nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeVector_RejectsBadLength(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for non-multiple-of-4 data")
	}
}
