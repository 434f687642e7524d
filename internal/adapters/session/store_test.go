package session

import (
	"context"
	"errors"
	"roadtrip-planner-web/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func TestMemoryStoreSlot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ports.ErrNoItinerary) {
		t.Fatalf("empty load err = %v, want ErrNoItinerary", err)
	}

	if err := s.Save(ctx, "sid", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "sid", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "sid")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("slot = %s, want the last write", got)
	}

	got[0] = 'x'
	again, _ := s.Load(ctx, "sid")
	if string(again) != `{"v":2}` {
		t.Fatalf("caller mutation leaked into the store")
	}

	if err := s.Clear(ctx, "sid"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ports.ErrNoItinerary) {
		t.Fatalf("load after clear err = %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	if err := s.Save(ctx, "a", []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "b", []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if _, err := s.Load(ctx, "a"); err != nil {
		t.Fatalf("a should still be live: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := s.Load(ctx, "b"); !errors.Is(err, ports.ErrNoItinerary) {
		t.Fatalf("b should have expired, err = %v", err)
	}
	if _, err := s.Load(ctx, "a"); err != nil {
		t.Fatalf("a was touched and should still be live: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if n := s.Sweep(); n != 1 {
		t.Fatalf("swept = %d, want 1", n)
	}
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(rdb, 30*time.Minute)
	defer s.Close()

	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ports.ErrNoItinerary) {
		t.Fatalf("empty load err = %v, want ErrNoItinerary", err)
	}

	if err := s.Save(ctx, "sid", []byte(`{"itinerary_id":"it_1"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("session:sid:itinerary") {
		t.Fatalf("expected key session:sid:itinerary")
	}

	got, err := s.Load(ctx, "sid")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"itinerary_id":"it_1"}` {
		t.Fatalf("slot = %s", got)
	}

	mr.FastForward(31 * time.Minute)
	if _, err := s.Load(ctx, "sid"); !errors.Is(err, ports.ErrNoItinerary) {
		t.Fatalf("expired load err = %v, want ErrNoItinerary", err)
	}

	if err := s.Save(ctx, "sid", []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(ctx, "sid"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("session:sid:itinerary") {
		t.Fatalf("key should be deleted")
	}
}

func TestNewRedisStoreBadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "://nope", time.Minute); err == nil {
		t.Fatalf("expected parse error")
	}
}
