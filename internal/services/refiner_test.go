package services

import (
	"context"
	"errors"
	"net/http"
	"roadtrip-planner-web/internal/adapters/genie"
	"roadtrip-planner-web/internal/adapters/session"
	"roadtrip-planner-web/internal/ports"
	"testing"
)

func newRefiner(t *testing.T, replies []genie.MockReply) (*Refiner, *genie.MockEngine, *session.MemoryStore) {
	t.Helper()

	engine := genie.NewMockEngine(nil, replies)
	store := session.NewMemoryStore(0)
	if err := store.Save(context.Background(), "sid", []byte(payload(1))); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return NewRefiner(engine, store, NewSlotGuard()), engine, store
}

func TestRefineReplacesSlot(t *testing.T) {
	r, engine, store := newRefiner(t, []genie.MockReply{{Status: http.StatusOK, Body: payload(2)}})

	it, err := r.Refine(context.Background(), "sid", "  add a hot spring stop  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID != "it_2" {
		t.Fatalf("id = %q, want it_2", it.ID)
	}

	if len(engine.RefineCalls) != 1 {
		t.Fatalf("refine calls = %d, want 1", len(engine.RefineCalls))
	}
	call := engine.RefineCalls[0]
	if call.Instruction != "add a hot spring stop" {
		t.Fatalf("instruction = %q, want trimmed", call.Instruction)
	}
	if string(call.Current) != payload(1) {
		t.Fatalf("current = %s, want cached payload", call.Current)
	}

	cached, _ := store.Load(context.Background(), "sid")
	if string(cached) != payload(2) {
		t.Fatalf("cached = %s, want refined payload", cached)
	}
}

func TestRefineFailureLeavesSlotUntouched(t *testing.T) {
	cases := map[string]genie.MockReply{
		"server error": {Status: http.StatusInternalServerError},
		"malformed":    {Status: http.StatusOK, Body: `not json`},
		"transport":    {Err: &ports.TransportError{Op: "POST", Err: errors.New("reset")}},
	}

	for name, reply := range cases {
		r, engine, store := newRefiner(t, []genie.MockReply{reply})

		_, err := r.Refine(context.Background(), "sid", "more hikes")

		var re *RefinementError
		if !errors.As(err, &re) {
			t.Fatalf("%s: err = %v, want *RefinementError", name, err)
		}
		if len(engine.RefineCalls) != 1 {
			t.Fatalf("%s: refine calls = %d, want 1 (no retry)", name, len(engine.RefineCalls))
		}
		cached, _ := store.Load(context.Background(), "sid")
		if string(cached) != payload(1) {
			t.Fatalf("%s: cached = %s, want original payload", name, cached)
		}
	}
}

func TestRefineRejectsEmptyInstruction(t *testing.T) {
	r, engine, _ := newRefiner(t, []genie.MockReply{{Status: http.StatusOK, Body: payload(2)}})

	if _, err := r.Refine(context.Background(), "sid", "   "); !errors.Is(err, ErrEmptyInstruction) {
		t.Fatalf("err = %v, want ErrEmptyInstruction", err)
	}
	if len(engine.RefineCalls) != 0 {
		t.Fatalf("engine should not be called")
	}
}

func TestRefineWithoutItinerary(t *testing.T) {
	r, _, _ := newRefiner(t, []genie.MockReply{{Status: http.StatusOK, Body: payload(2)}})

	if _, err := r.Refine(context.Background(), "fresh", "more hikes"); !errors.Is(err, ports.ErrNoItinerary) {
		t.Fatalf("err = %v, want ErrNoItinerary", err)
	}
}

func TestRefineSessionBusy(t *testing.T) {
	r, engine, _ := newRefiner(t, []genie.MockReply{{Status: http.StatusOK, Body: payload(2)}})
	r.guard.Acquire("sid")

	if _, err := r.Refine(context.Background(), "sid", "more hikes"); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("err = %v, want ErrSessionBusy", err)
	}
	if len(engine.RefineCalls) != 0 {
		t.Fatalf("engine should not be called while busy")
	}
}
