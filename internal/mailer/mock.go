package mailer

import (
	"context"
	"sync"
)

// Mock records outgoing mail for tests. Err, when set, is returned by
// every Send so callers' failure handling can be exercised; a failed
// send records nothing.
type Mock struct {
	mu   sync.Mutex
	Sent []Email
	Err  error
}

func (m *Mock) Send(ctx context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

// SentCount is safe under concurrent Sends.
func (m *Mock) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
