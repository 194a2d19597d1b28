package redis

import (
	"context"

	"github.com/wellspring-cloud/wellspring/internal/db"
)

// LPush prepends values to a list.
func (s *Store) LPush(ctx context.Context, key string, values ...string) error {
	cmd := s.b().Lpush().Key(key).Element(values...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpLPush, Err: err}
	}
	return nil
}

// LTrim trims a list to the given inclusive range.
func (s *Store) LTrim(ctx context.Context, key string, start, stop int64) error {
	cmd := s.b().Ltrim().Key(key).Start(start).Stop(stop).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpLTrim, Err: err}
	}
	return nil
}

// LRange returns list elements in the given inclusive range.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.b().Lrange().Key(key).Start(start).Stop(stop).Build()
	items, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	return items, nil
}
