// Package querylog persists query interactions, feedback, and usage counters
// in Redis. Everything here is best-effort from the pipeline's point of view:
// a failed write is logged by the caller and never affects the user response.
package querylog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wellspring-cloud/wellspring/internal/db"
	"github.com/wellspring-cloud/wellspring/internal/domain"
)

const (
	keyPrefix      = domain.KeyPrefix + "qlog:"
	recentKey      = keyPrefix + "recent"
	recentCap      = 1000
	maxQueryLen    = 1000
	maxResponseLen = 2000
)

// store is the consumer interface for the query log (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
	IncrByFloat(ctx context.Context, key string, val float64) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	LPush(ctx context.Context, key string, values ...string) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Entry is one logged query interaction.
type Entry struct {
	ID             string
	Query          string
	Response       string
	Confidence     float64
	ProcessingSec  float64
	Source         domain.SourceTag
	Timestamp      time.Time
	FeedbackRating float64 // 0 = no feedback yet
}

// Stats aggregates usage counters.
type Stats struct {
	TotalQueries     int64
	SourceCounts     map[string]int64
	AvgConfidence    float64
	AvgProcessingSec float64
	FeedbackCount    int64
	AvgRating        float64
	FeedbackRate     float64
}

// Store is the Redis-backed query log.
type Store struct {
	db  store
	ttl time.Duration
}

// New creates a query log with the given entry retention.
func New(db store, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// Log records one query interaction. Entries expire after the configured TTL;
// the recency index is capped rather than expired.
func (s *Store) Log(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	fields := map[string]string{
		"query":           truncate(e.Query, maxQueryLen),
		"response":        truncate(e.Response, maxResponseLen),
		"confidence":      strconv.FormatFloat(e.Confidence, 'f', -1, 64),
		"processing_time": strconv.FormatFloat(e.ProcessingSec, 'f', -1, 64),
		"source":          string(e.Source),
		"timestamp":       e.Timestamp.Format(time.RFC3339Nano),
	}

	entryKey := keyPrefix + "entry:" + e.ID
	if err := s.db.HSet(ctx, entryKey, fields); err != nil {
		return fmt.Errorf("store entry: %w", err)
	}
	if err := s.db.Expire(ctx, entryKey, s.ttl); err != nil {
		return fmt.Errorf("expire entry: %w", err)
	}

	// Most recent log entry for this exact query text, for feedback matching.
	if err := s.db.SetWithTTL(ctx, latestKey(e.Query), []byte(e.ID), s.ttl); err != nil {
		return fmt.Errorf("index latest: %w", err)
	}

	if err := s.db.LPush(ctx, recentKey, e.ID); err != nil {
		return fmt.Errorf("push recent: %w", err)
	}
	if err := s.db.LTrim(ctx, recentKey, 0, recentCap-1); err != nil {
		return fmt.Errorf("trim recent: %w", err)
	}

	s.bumpCounters(ctx, e)
	return nil
}

// RecordFeedback attaches a rating to the most recent entry with identical
// query text. Returns domain.ErrFeedbackNotMatched when none is found.
func (s *Store) RecordFeedback(ctx context.Context, query string, rating float64) error {
	id, err := s.db.Get(ctx, latestKey(query))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrFeedbackNotMatched
		}
		return fmt.Errorf("lookup latest entry: %w", err)
	}

	entryKey := keyPrefix + "entry:" + string(id)
	ok, err := s.db.Exists(ctx, entryKey)
	if err != nil {
		return fmt.Errorf("check entry: %w", err)
	}
	if !ok {
		// Entry expired but its index key survived; drop the dangling pointer.
		if err := s.db.Del(ctx, latestKey(query)); err != nil {
			return fmt.Errorf("drop stale index: %w", err)
		}
		return domain.ErrFeedbackNotMatched
	}

	update := map[string]string{"feedback_rating": strconv.FormatFloat(rating, 'f', -1, 64)}
	if err := s.db.HSet(ctx, entryKey, update); err != nil {
		return fmt.Errorf("store rating: %w", err)
	}

	if err := s.db.IncrBy(ctx, keyPrefix+"count:feedback", 1); err != nil {
		return fmt.Errorf("count feedback: %w", err)
	}
	if err := s.db.IncrByFloat(ctx, keyPrefix+"sum:rating", rating); err != nil {
		return fmt.Errorf("sum rating: %w", err)
	}
	return nil
}

// GetStats derives aggregate statistics from the usage counters.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{SourceCounts: make(map[string]int64)}

	sources := []domain.SourceTag{
		domain.SourceExternalAPI, domain.SourceInternal, domain.SourceNoResults,
		domain.SourceValidationError, domain.SourceSystemError,
	}
	for _, src := range sources {
		n, err := s.counter(ctx, keyPrefix+"count:"+string(src))
		if err != nil {
			return Stats{}, err
		}
		stats.SourceCounts[string(src)] = n
		stats.TotalQueries += n
	}

	confSum, err := s.floatCounter(ctx, keyPrefix+"sum:confidence")
	if err != nil {
		return Stats{}, err
	}
	procSum, err := s.floatCounter(ctx, keyPrefix+"sum:processing")
	if err != nil {
		return Stats{}, err
	}
	if stats.TotalQueries > 0 {
		stats.AvgConfidence = confSum / float64(stats.TotalQueries)
		stats.AvgProcessingSec = procSum / float64(stats.TotalQueries)
	}

	stats.FeedbackCount, err = s.counter(ctx, keyPrefix+"count:feedback")
	if err != nil {
		return Stats{}, err
	}
	ratingSum, err := s.floatCounter(ctx, keyPrefix+"sum:rating")
	if err != nil {
		return Stats{}, err
	}
	if stats.FeedbackCount > 0 {
		stats.AvgRating = ratingSum / float64(stats.FeedbackCount)
	}
	if stats.TotalQueries > 0 {
		stats.FeedbackRate = float64(stats.FeedbackCount) / float64(stats.TotalQueries)
	}

	return stats, nil
}

// Recent returns up to limit most recent entries, newest first.
// Expired entries are skipped.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	ids, err := s.db.LRange(ctx, recentKey, 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		fields, err := s.db.HGetAll(ctx, keyPrefix+"entry:"+id)
		if err != nil {
			return nil, fmt.Errorf("load entry %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, entryFromFields(id, fields))
	}
	return entries, nil
}

// bumpCounters updates usage counters. Counter failures are ignored: the
// entry itself is already stored and stats are advisory.
func (s *Store) bumpCounters(ctx context.Context, e Entry) {
	_ = s.db.IncrBy(ctx, keyPrefix+"count:"+string(e.Source), 1)
	_ = s.db.IncrByFloat(ctx, keyPrefix+"sum:confidence", e.Confidence)
	_ = s.db.IncrByFloat(ctx, keyPrefix+"sum:processing", e.ProcessingSec)
}

func (s *Store) counter(ctx context.Context, key string) (int64, error) {
	data, err := s.db.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read counter %s: %w", key, err)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", key, err)
	}
	return n, nil
}

func (s *Store) floatCounter(ctx context.Context, key string) (float64, error) {
	data, err := s.db.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read counter %s: %w", key, err)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", key, err)
	}
	return f, nil
}

func entryFromFields(id string, fields map[string]string) Entry {
	e := Entry{
		ID:       id,
		Query:    fields["query"],
		Response: fields["response"],
		Source:   domain.SourceTag(fields["source"]),
	}
	e.Confidence, _ = strconv.ParseFloat(fields["confidence"], 64)
	e.ProcessingSec, _ = strconv.ParseFloat(fields["processing_time"], 64)
	e.FeedbackRating, _ = strconv.ParseFloat(fields["feedback_rating"], 64)
	e.Timestamp, _ = time.Parse(time.RFC3339Nano, fields["timestamp"])
	return e
}

func latestKey(query string) string {
	h := sha256.Sum256([]byte(query))
	return keyPrefix + "last:" + hex.EncodeToString(h[:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
