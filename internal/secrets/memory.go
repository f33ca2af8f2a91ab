package secrets

import (
	"context"
	"fmt"
	"sync"
)

// Memory — in-memory хранилище для тестов.
type Memory struct {
	mu   sync.Mutex
	cred string
	set  bool
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(_ context.Context) (string, error) {
	const op = "secrets.memory.Get"

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.set {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return m.cred, nil
}

func (m *Memory) Set(_ context.Context, credential string) error {
	const op = "secrets.memory.Set"

	if credential == "" {
		return fmt.Errorf("%s: empty credential", op)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cred = credential
	m.set = true

	return nil
}

func (m *Memory) Delete(_ context.Context) error {
	const op = "secrets.memory.Delete"

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.set {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	m.cred = ""
	m.set = false

	return nil
}
