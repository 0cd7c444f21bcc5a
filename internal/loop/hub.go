package loop

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// EventType identifies the type of session event.
type EventType int

const (
	EventNotice EventType = iota // A message worth showing every pilot
)

// Event is sent from the hub to sessions.
type Event struct {
	Type    EventType
	Message string
}

// Handle is a session's registration with the hub.
type Handle struct {
	ID       int
	User     string
	Events   chan Event      // Closed on Unregister
	Shutdown <-chan struct{} // Closed once the host starts going down
}

// Hub tracks the sessions of one host so they can be told about shutdowns
// and each other's high scores. Every session runs its own game.
type Hub struct {
	mu       sync.RWMutex
	clients  map[int]*Handle
	nextID   int
	shutdown chan struct{}
	once     sync.Once
	logger   *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients:  make(map[int]*Handle),
		nextID:   1,
		shutdown: make(chan struct{}),
		logger:   logger.WithPrefix("hub"),
	}
}

// Register adds a session for user and returns its handle.
func (h *Hub) Register(user string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &Handle{
		ID:       h.nextID,
		User:     user,
		Events:   make(chan Event, 16),
		Shutdown: h.shutdown,
	}
	h.nextID++
	h.clients[handle.ID] = handle
	h.logger.Debug("registered", "id", handle.ID, "user", user, "sessions", len(h.clients))
	return handle
}

// Unregister removes a session and closes its event channel.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(handle.Events)
	h.logger.Debug("unregistered", "id", id, "user", handle.User, "sessions", len(h.clients))
}

// Broadcast sends e to every session except the one with id except.
// Sessions whose queue is full miss the event.
func (h *Hub) Broadcast(e Event, except int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, handle := range h.clients {
		if id == except {
			continue
		}
		select {
		case handle.Events <- e:
		default:
		}
	}
}

// Count returns the number of registered sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown notifies all sessions and waits for them to leave, up to timeout.
// It reports whether every session left in time. Unlike events, the notice
// cannot be lost to a full queue, and sessions registering later see it too.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.announceShutdown()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			h.logger.Warn("sessions still connected at shutdown", "sessions", h.Count())
			return false
		case <-ticker.C:
		}
	}
}

func (h *Hub) announceShutdown() {
	h.once.Do(func() {
		close(h.shutdown)
		h.logger.Info("shutdown announced", "sessions", h.Count())
	})
}
