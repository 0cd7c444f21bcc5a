// Package loop runs interactive sessions: one terminal, one game at a time,
// driven at a fixed frame rate.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/control"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/input"
	"github.com/tomz197/skyraid/internal/render"
	"github.com/tomz197/skyraid/internal/store"
)

const (
	// restartDelay keeps a held fire key from skipping the game over screen.
	restartDelay   = time.Second
	noticeDuration = 5 * time.Second
	bestShown      = 5
)

// SessionOptions configures a session.
type SessionOptions struct {
	User         string
	TermSizeFunc draw.TermSizeFunc
	Rulesets     *config.RulesetSource // Read at every game start
	Store        store.Store           // Optional
	Hub          *Hub                  // Optional; a private hub is used when nil
	Logger       *log.Logger
	FrameTime    time.Duration // Defaults to config.TargetFrameTime
	GameOptions  []game.Option // Extra options for every game
}

// Session handles rendering and input for a single terminal.
type Session struct {
	opts     SessionOptions
	hub      *Hub
	handle   *Handle
	stream   *input.Stream
	renderer *render.Renderer
	surface  *control.Surface
	logger   *log.Logger

	mode     render.Mode
	running  bool
	game     *game.Game
	snap     game.Snapshot
	autoFire bool

	lastInput   time.Time
	inactive    bool
	shutdownAt  time.Time
	gameOverAt  time.Time
	notice      string
	noticeUntil time.Time
	summary     *game.Summary
	rank        int
	best        []store.Entry
}

// NewSession creates a session reading keys from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.FrameTime <= 0 {
		opts.FrameTime = config.TargetFrameTime
	}
	if opts.Rulesets == nil {
		opts.Rulesets = config.NewRulesetSource(config.Full())
	}
	hub := opts.Hub
	if hub == nil {
		hub = NewHub(opts.Logger)
	}
	vp := opts.Rulesets.Load().Viewport

	return &Session{
		opts:      opts,
		hub:       hub,
		handle:    hub.Register(opts.User),
		stream:    input.StartStream(r),
		renderer:  render.New(w, opts.TermSizeFunc, vp),
		surface:   control.NewSurface(),
		logger:    opts.Logger.WithPrefix("session").With("user", opts.User),
		mode:      render.ModeTitle,
		running:   true,
		lastInput: time.Now(),
	}
}

// Run starts the session loop. Blocks until the user quits, the input
// closes, the context is cancelled or the hub shutdown countdown ends.
func (s *Session) Run(ctx context.Context) error {
	defer s.hub.Unregister(s.handle.ID)

	if err := s.renderer.Begin(); err != nil {
		return fmt.Errorf("loop: begin: %w", err)
	}
	defer func() { _ = s.renderer.End() }()

	s.refreshBest(ctx)

	for s.running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			s.stopGame()
			return nil
		default:
		}

		s.update(ctx, input.ReadInput(s.stream), frameStart)
		if !s.running {
			break
		}

		if err := s.draw(frameStart); err != nil {
			s.stopGame()
			return fmt.Errorf("loop: draw: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < s.opts.FrameTime {
			time.Sleep(s.opts.FrameTime - elapsed)
		}
	}

	s.stopGame()
	return nil
}

// update applies one frame of input and advances the current screen.
func (s *Session) update(ctx context.Context, in input.Input, now time.Time) {
	s.processInput(in, now)
	s.processEvents(now)
	if !s.running {
		return
	}

	switch s.mode {
	case render.ModeTitle:
		if in.Confirm {
			s.startGame()
		}
	case render.ModePlaying:
		s.updatePlaying(ctx, in, now)
	case render.ModePaused:
		if in.Pause || in.Escape {
			input.Reset(s.stream)
			s.mode = render.ModePlaying
		}
	case render.ModeGameOver:
		if in.Confirm && now.Sub(s.gameOverAt) >= restartDelay {
			s.startGame()
		}
	case render.ModeShutdown:
		if !now.Before(s.shutdownAt) {
			s.running = false
		}
	}
}

// processInput tracks activity and handles quitting.
func (s *Session) processInput(in input.Input, now time.Time) {
	if in.Closed {
		s.running = false
		return
	}

	idle := now.Sub(s.lastInput)
	switch {
	case len(in.Pressed) > 0:
		s.lastInput = now
		s.inactive = false
	case idle > config.InactivityDisconnectUser*time.Second:
		s.logger.Info("disconnecting inactive session")
		s.running = false
		return
	case idle > config.InactivityWarnUser*time.Second:
		s.inactive = true
	}

	if in.Quit {
		s.running = false
	}
}

// processEvents handles the hub shutdown notice and queued events.
func (s *Session) processEvents(now time.Time) {
	if s.mode != render.ModeShutdown {
		select {
		case <-s.handle.Shutdown:
			s.stopGame()
			s.mode = render.ModeShutdown
			s.shutdownAt = now.Add(time.Duration(config.ShutdownDisplaySeconds * float64(time.Second)))
		default:
		}
	}

	for {
		select {
		case event, ok := <-s.handle.Events:
			if !ok {
				s.running = false
				return
			}
			if event.Type == EventNotice {
				s.showNotice(event.Message, now)
			}
		default:
			return
		}
	}
}

// updatePlaying feeds the control surface and advances the game one tick.
func (s *Session) updatePlaying(ctx context.Context, in input.Input, now time.Time) {
	if in.Pause || in.Escape {
		s.surface.Reset()
		s.mode = render.ModePaused
		return
	}

	s.applyControls(in)
	s.game.Tick(s.surface.Read())

	if s.game.Phase() == game.PhaseOver {
		s.endRun(ctx, now)
	}
}

// applyControls translates keys and mouse into the control surface.
func (s *Session) applyControls(in input.Input) {
	s.surface.SetMove(axis(in.Left, in.Right), axis(in.Up, in.Down))

	if in.MouseMoved {
		s.surface.SetAim(s.renderer.ToLogical(in.Mouse.Col, in.Mouse.Row))
	}
	s.surface.SetAimDirection(axis(in.AimLeft, in.AimRight), axis(in.AimUp, in.AimDown))

	if in.AutoFire {
		s.autoFire = !s.autoFire
	}
	s.surface.SetFire(in.Fire || s.autoFire)

	if in.Dash {
		s.surface.RequestDash()
	}
}

func axis(neg, pos bool) float64 {
	switch {
	case neg && !pos:
		return -1
	case pos && !neg:
		return 1
	}
	return 0
}

// startGame starts a fresh run with the current ruleset.
func (s *Session) startGame() {
	input.Reset(s.stream)
	s.surface.Reset()
	s.surface.SetAimDirection(0, -1)

	rules := s.opts.Rulesets.Load()
	opts := append([]game.Option{
		game.WithLogger(s.opts.Logger.WithPrefix("game").With("user", s.opts.User)),
	}, s.opts.GameOptions...)

	g, err := game.New(rules, opts...)
	if err != nil {
		s.logger.Error("cannot start game", "ruleset", rules.Name, "err", err)
		s.showNotice("Cannot start: "+err.Error(), time.Now())
		return
	}
	s.game = g
	s.renderer.SetViewport(rules.Viewport)
	s.summary = nil
	s.rank = 0
	s.mode = render.ModePlaying
	s.logger.Info("game started", "run", g.RunID(), "ruleset", rules.Name)
}

// stopGame ends a run that is still in progress.
func (s *Session) stopGame() {
	if s.game != nil && s.game.Phase() == game.PhasePlaying {
		s.game.Stop()
	}
}

// endRun records the finished run and switches to the game over screen.
func (s *Session) endRun(ctx context.Context, now time.Time) {
	sum := s.game.Summary()
	sum.Player = s.opts.User
	s.recordRun(ctx, sum, now)
	s.mode = render.ModeGameOver
	s.gameOverAt = now
}

// recordRun saves a summary and announces a new best score to the hub.
// A failed save only costs the record, never the session.
func (s *Session) recordRun(ctx context.Context, sum game.Summary, now time.Time) {
	s.summary = &sum
	s.rank = 0
	if s.opts.Store == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(ctx, config.SaveTimeout)
	defer cancel()

	entry, err := s.opts.Store.SaveRun(saveCtx, sum)
	if err != nil {
		s.logger.Warn("could not save run", "run", sum.RunID, "err", err)
		s.showNotice("Could not save this run", now)
		return
	}
	s.rank = entry.Rank
	if entry.Rank == 1 {
		s.hub.Broadcast(Event{
			Type:    EventNotice,
			Message: fmt.Sprintf("%s set a new high score: %d", displayName(s.opts.User), sum.Score),
		}, s.handle.ID)
	}
	s.refreshBest(ctx)
}

func (s *Session) refreshBest(ctx context.Context) {
	if s.opts.Store == nil {
		return
	}
	loadCtx, cancel := context.WithTimeout(ctx, config.SaveTimeout)
	defer cancel()

	best, err := s.opts.Store.TopScores(loadCtx, bestShown)
	if err != nil {
		s.logger.Warn("could not load leaderboard", "err", err)
		return
	}
	s.best = best
}

func (s *Session) showNotice(msg string, now time.Time) {
	s.notice = msg
	s.noticeUntil = now.Add(noticeDuration)
}

// draw renders the current screen.
func (s *Session) draw(now time.Time) error {
	v := render.View{
		Mode:              s.mode,
		Player:            displayName(s.opts.User),
		Ruleset:           s.opts.Rulesets.Load().Name,
		AutoFire:          s.autoFire,
		Inactive:          s.inactive,
		InactiveRemaining: config.InactivityDisconnectUser*time.Second - now.Sub(s.lastInput),
		ShutdownRemaining: s.shutdownAt.Sub(now),
		Summary:           s.summary,
		Rank:              s.rank,
		Best:              s.best,
	}
	if now.Before(s.noticeUntil) {
		v.Notice = s.notice
	}

	if s.game == nil {
		return s.renderer.Frame(nil, v)
	}
	s.game.Snapshot(&s.snap)
	return s.renderer.Frame(&s.snap, v)
}

func displayName(user string) string {
	if user == "" {
		return "pilot"
	}
	return user
}
