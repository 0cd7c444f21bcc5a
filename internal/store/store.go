// Package store persists finished runs and the high-score leaderboard.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/game"
)

// ErrNotFound is returned when a run id has no record.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence boundary used by sessions and the web feed.
type Store interface {
	// SaveRun records a finished run and offers it to the leaderboard.
	// The returned entry carries its rank, or 0 if it did not place.
	SaveRun(ctx context.Context, s game.Summary) (Entry, error)
	// Run loads a recorded run.
	Run(ctx context.Context, id string) (game.Summary, error)
	// TopScores returns up to n leaderboard entries, best first.
	TopScores(ctx context.Context, n int) ([]Entry, error)
}

// Entry is one leaderboard line.
type Entry struct {
	Rank    int       `json:"rank" msgpack:"-"`
	RunID   string    `json:"run_id" msgpack:"run_id"`
	Player  string    `json:"player" msgpack:"player"`
	Score   int       `json:"score" msgpack:"score"`
	Level   int       `json:"level" msgpack:"level"`
	Ruleset string    `json:"ruleset" msgpack:"ruleset"`
	EndedAt time.Time `json:"ended_at" msgpack:"ended_at"`
}

// Items is a flat key/value blob store. *gdata.Manager satisfies it.
type Items interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

const leaderboardKey = "leaderboard"

func runKey(id string) string {
	return "run-" + id
}

// Records implements Store on top of Items, encoding values with msgpack.
type Records struct {
	mu     sync.Mutex
	items  Items
	size   int
	logger *log.Logger
}

// Option configures Records.
type Option func(*Records)

// WithLeaderboardSize sets how many entries the leaderboard keeps.
func WithLeaderboardSize(n int) Option {
	return func(r *Records) { r.size = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Records) { r.logger = l }
}

// New creates Records over items.
func New(items Items, opts ...Option) *Records {
	r := &Records{items: items, size: config.LeaderboardSize}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.size < 1 {
		r.size = 1
	}
	return r
}

var _ Store = (*Records)(nil)

// SaveRun implements Store.
func (r *Records) SaveRun(ctx context.Context, s game.Summary) (Entry, error) {
	if s.RunID == "" {
		return Entry{}, errors.New("store: run without id")
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := msgpack.Marshal(&s)
	if err != nil {
		return Entry{}, fmt.Errorf("store: encode run: %w", err)
	}
	if err := r.items.SaveItem(runKey(s.RunID), data); err != nil {
		return Entry{}, fmt.Errorf("store: save run %s: %w", s.RunID, err)
	}

	board, err := r.loadBoard()
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		RunID:   s.RunID,
		Player:  s.Player,
		Score:   s.Score,
		Level:   s.MaxLevel,
		Ruleset: s.Ruleset,
		EndedAt: s.EndedAt,
	}
	board, rank := insert(board, entry, r.size)
	if rank > 0 {
		if err := r.saveBoard(board); err != nil {
			return Entry{}, err
		}
	}
	entry.Rank = rank

	r.logger.Debug("run saved", "run", s.RunID, "score", s.Score, "rank", rank)
	return entry, nil
}

// Run implements Store.
func (r *Records) Run(ctx context.Context, id string) (game.Summary, error) {
	if err := ctx.Err(); err != nil {
		return game.Summary{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.items.LoadItem(runKey(id))
	if err != nil {
		return game.Summary{}, fmt.Errorf("store: load run %s: %w", id, err)
	}
	if len(data) == 0 {
		return game.Summary{}, fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}
	var s game.Summary
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return game.Summary{}, fmt.Errorf("store: decode run %s: %w", id, err)
	}
	return s, nil
}

// TopScores implements Store.
func (r *Records) TopScores(ctx context.Context, n int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	board, err := r.loadBoard()
	if err != nil {
		return nil, err
	}
	if n >= 0 && n < len(board) {
		board = board[:n]
	}
	return board, nil
}

func (r *Records) loadBoard() ([]Entry, error) {
	data, err := r.items.LoadItem(leaderboardKey)
	if err != nil {
		return nil, fmt.Errorf("store: load leaderboard: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var board []Entry
	if err := msgpack.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("store: decode leaderboard: %w", err)
	}
	rank(board)
	return board, nil
}

func (r *Records) saveBoard(board []Entry) error {
	data, err := msgpack.Marshal(board)
	if err != nil {
		return fmt.Errorf("store: encode leaderboard: %w", err)
	}
	if err := r.items.SaveItem(leaderboardKey, data); err != nil {
		return fmt.Errorf("store: save leaderboard: %w", err)
	}
	return nil
}

// insert places e on the board, keeping it sorted best first and at most
// size long. A run already on the board is replaced. It returns the 1-based
// rank of e, or 0 when e did not make the cut.
func insert(board []Entry, e Entry, size int) ([]Entry, int) {
	board = slices.DeleteFunc(board, func(o Entry) bool { return o.RunID == e.RunID })
	board = append(board, e)
	slices.SortStableFunc(board, compareEntries)
	if len(board) > size {
		board = board[:size]
	}
	rank(board)
	for _, o := range board {
		if o.RunID == e.RunID {
			return board, o.Rank
		}
	}
	return board, 0
}

// compareEntries orders by score, then by who got there first.
func compareEntries(a, b Entry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return a.EndedAt.Compare(b.EndedAt)
}

func rank(board []Entry) {
	for i := range board {
		board[i].Rank = i + 1
	}
}
