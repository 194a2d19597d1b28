package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/wellspring-cloud/wellspring/internal/db"
)

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_KeyNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.RedisString("v")))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "v" {
		t.Errorf("got %q, want %q", data, "v")
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HSET", "h", "f", "v")).
		Return(mock.ErrorResult(errors.New("connection reset")))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "h", map[string]string{"f": "v"})
	if err == nil {
		t.Fatal("expected error")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpHSet {
		t.Errorf("expected db.Error with Op=HSET, got %v", err)
	}
}

func TestLRange_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("LRANGE", "l", "0", "9")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("a"), mock.RedisString("b"))))

	s := NewStoreForTest(c)
	items, err := s.LRange(context.Background(), "l", 0, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0] != "a" || items[1] != "b" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXISTS", "k")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	ok, err := s.Exists(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected key to exist")
	}
}
