// Package web serves the landing page and a live leaderboard feed.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/store"
)

const writeWait = 10 * time.Second

// Message is what the feed sends over the websocket.
type Message struct {
	Type    string        `json:"type"`
	Entries []store.Entry `json:"entries"`
}

// Server serves the landing page, the leaderboard API and its websocket feed.
type Server struct {
	store    store.Store
	logger   *log.Logger
	page     string
	poll     time.Duration
	upgrader websocket.Upgrader

	closeOnce sync.Once
	closed    chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithPollInterval sets how often feeds check the leaderboard for changes.
func WithPollInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.poll = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a server over st. page is the landing page HTML; its
// {{.SSHHost}} placeholders are replaced with sshHost.
func NewServer(st store.Store, page, sshHost string, opts ...Option) *Server {
	s := &Server{
		store:  st,
		logger: log.New(io.Discard),
		page:   strings.ReplaceAll(page, "{{.SSHHost}}", sshHost),
		poll:   config.LeaderboardPoll,
		closed: make(chan struct{}),
		upgrader: websocket.Upgrader{
			// The feed is public and read-only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("web")
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRun)
	mux.HandleFunc("GET /ws", s.handleFeed)
	return mux
}

// Close ends every open feed. Hijacked connections are not covered by
// http.Server.Shutdown.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, s.page)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.board(r.Context())
	if err != nil {
		s.logger.Warn("leaderboard unavailable", "err", err)
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, Message{Type: "leaderboard", Entries: board})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.SaveTimeout)
	defer cancel()

	run, err := s.store.Run(ctx, r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.logger.Warn("run unavailable", "id", r.PathValue("id"), "err", err)
		http.Error(w, "run unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, run)
}

// handleFeed sends the leaderboard on connect and again whenever it changes.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(config.WebsocketTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(config.WebsocketTimeout))
	})

	// The client never sends anything useful; reading keeps pongs and
	// close frames flowing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	poll := time.NewTicker(s.poll)
	defer poll.Stop()
	ping := time.NewTicker(config.WebsocketPing)
	defer ping.Stop()

	var (
		last []store.Entry
		sent bool
	)
	send := func() error {
		board, err := s.board(r.Context())
		if err != nil {
			s.logger.Warn("leaderboard unavailable", "err", err)
			return nil
		}
		if sent && slices.EqualFunc(board, last, sameEntry) {
			return nil
		}
		last, sent = board, true
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(Message{Type: "leaderboard", Entries: board})
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-gone:
			return
		case <-s.closed:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-poll.C:
			if err := send(); err != nil {
				s.logger.Debug("feed write failed", "err", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) board(ctx context.Context) ([]store.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SaveTimeout)
	defer cancel()

	board, err := s.store.TopScores(ctx, config.LeaderboardSize)
	if err != nil {
		return nil, err
	}
	if board == nil {
		board = []store.Entry{}
	}
	return board, nil
}

func sameEntry(a, b store.Entry) bool {
	return a.RunID == b.RunID && a.Rank == b.Rank && a.Score == b.Score && a.Player == b.Player
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
