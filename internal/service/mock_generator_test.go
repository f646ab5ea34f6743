package service

import (
	"context"
	"sync"
)

// mockReply is one scripted generator result.
type mockReply struct {
	Text string
	Err  error
	// Block makes Generate wait for the context to end and report a transport failure.
	Block bool
}

// mockGenerator replays scripted replies in FIFO order and records every request.
type mockGenerator struct {
	mu      sync.Mutex
	replies []mockReply
	Calls   []GenerationRequest
}

func newMockGenerator(replies ...mockReply) *mockGenerator {
	return &mockGenerator{replies: replies}
}

func (m *mockGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationOutcome, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return &GenerationOutcome{Text: "ok"}, nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	if reply.Block {
		<-ctx.Done()
		return nil, &GenerationError{Kind: GenerationTransport, Err: ctx.Err()}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &GenerationOutcome{Text: reply.Text}, nil
}

func (m *mockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
