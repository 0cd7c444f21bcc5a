package store

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata"
)

// OpenGData opens the per-user save directory for app and returns Records
// backed by it.
func OpenGData(app string, opts ...Option) (*Records, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: app,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", app, err)
	}
	return New(m, opts...), nil
}

// NewMemory returns Records that live only as long as the process.
func NewMemory(opts ...Option) *Records {
	return New(&memoryItems{items: make(map[string][]byte)}, opts...)
}

// Open picks gdata when app is set and falls back to memory when it is
// empty or cannot be opened.
func Open(app string, logger *log.Logger) *Records {
	if logger == nil {
		logger = log.Default()
	}
	opts := []Option{WithLogger(logger)}
	if app == "" {
		return NewMemory(opts...)
	}
	r, err := OpenGData(app, opts...)
	if err != nil {
		logger.Warn("persistence unavailable, keeping scores in memory", "err", err)
		return NewMemory(opts...)
	}
	return r
}

type memoryItems struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func (m *memoryItems) LoadItem(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key], nil
}

func (m *memoryItems) SaveItem(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), data...)
	return nil
}
