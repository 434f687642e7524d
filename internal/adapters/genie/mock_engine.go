package genie

import (
	"context"
	"encoding/json"
	"fmt"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/ports"
	"sync"
)

// MockReply scripts one engine answer. Err takes precedence, then a
// non-2xx Status, then Body.
type MockReply struct {
	Status int
	Body   string
	Err    error
}

// RefineCall records what a Refine call was given.
type RefineCall struct {
	Current     json.RawMessage
	Instruction string
}

// MockEngine replays scripted replies in order. When the script runs out the
// last reply repeats.
type MockEngine struct {
	mu            sync.Mutex
	generate      []MockReply
	refine        []MockReply
	GenerateCalls []domain.TripRequest
	RefineCalls   []RefineCall
}

func NewMockEngine(generate []MockReply, refine []MockReply) *MockEngine {
	return &MockEngine{generate: generate, refine: refine}
}

func (m *MockEngine) BaseURL() string { return DefaultBaseURL }

func (m *MockEngine) Generate(ctx context.Context, req domain.TripRequest) ([]byte, error) {
	m.mu.Lock()
	idx := len(m.GenerateCalls)
	m.GenerateCalls = append(m.GenerateCalls, req)
	m.mu.Unlock()

	return replay(m.generate, idx)
}

func (m *MockEngine) Refine(ctx context.Context, current json.RawMessage, instruction string) ([]byte, error) {
	m.mu.Lock()
	idx := len(m.RefineCalls)
	m.RefineCalls = append(m.RefineCalls, RefineCall{Current: current, Instruction: instruction})
	m.mu.Unlock()

	return replay(m.refine, idx)
}

func (m *MockEngine) GenerateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

func replay(script []MockReply, idx int) ([]byte, error) {
	if len(script) == 0 {
		return nil, fmt.Errorf("mock engine: no reply scripted")
	}
	if idx >= len(script) {
		idx = len(script) - 1
	}

	r := script[idx]
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Status != 0 && (r.Status < 200 || r.Status > 299) {
		return nil, &ports.StatusError{Code: r.Status, Body: r.Body}
	}
	return []byte(r.Body), nil
}
