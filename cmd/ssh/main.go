package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/loop"
	"github.com/tomz197/skyraid/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	shutdownWait       = 15 * time.Second
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("could not load .env", "err", err)
	}
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	rulesetFile := config.GetEnv("SKYRAID_RULESET_FILE", "")
	rules, err := config.ResolveRuleset(config.GetEnv("SKYRAID_RULESET", config.RulesetFull), rulesetFile)
	if err != nil {
		logger.Fatal("invalid ruleset", "err", err)
	}
	source := config.NewRulesetSource(rules)
	if rulesetFile != "" {
		w, err := config.NewWatcher(rulesetFile, source, logger)
		if err != nil {
			logger.Warn("ruleset hot reload disabled", "err", err)
		} else {
			defer w.Close()
		}
	}

	g := &games{
		hub:      loop.NewHub(logger),
		store:    store.Open(config.GetEnv("SKYRAID_DATA_APP", config.DefaultDataApp), logger),
		rulesets: source,
		logger:   logger,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware(ctx),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "sessions", g.hub.Count())

	// Players get the shutdown screen and a moment to read it.
	if !g.hub.Shutdown(shutdownWait) {
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// games holds what every session on this host shares.
type games struct {
	hub      *loop.Hub
	store    store.Store
	rulesets *config.RulesetSource
	logger   *log.Logger
}

// middleware runs one game session per SSH connection.
func (g *games) middleware(ctx context.Context) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			g.logger.Info("new game session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			win := &window{width: pty.Window.Width, height: pty.Window.Height}
			go win.follow(winCh)

			sessCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				select {
				case <-sess.Context().Done():
					cancel()
				case <-sessCtx.Done():
				}
			}()

			session := loop.NewSession(bufio.NewReader(sess), sess, loop.SessionOptions{
				User:         sess.User(),
				TermSizeFunc: win.size,
				Rulesets:     g.rulesets,
				Store:        g.store,
				Hub:          g.hub,
				Logger:       g.logger,
			})
			if err := session.Run(sessCtx); err != nil {
				g.logger.Error("game error", "user", sess.User(), "err", err)
			}

			g.logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// window is the latest pty size reported by the client.
type window struct {
	mu            sync.Mutex
	width, height int
}

// follow applies window change events until the channel closes.
func (w *window) follow(changes <-chan ssh.Window) {
	for win := range changes {
		w.mu.Lock()
		w.width, w.height = win.Width, win.Height
		w.mu.Unlock()
	}
}

func (w *window) size() (int, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height, nil
}

var _ draw.TermSizeFunc = (*window)(nil).size
