package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/loop"
	"github.com/tomz197/skyraid/internal/store"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	logger, closeLog, err := openLogger(config.GetEnv("SKYRAID_LOG_FILE", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	rulesetFile := config.GetEnv("SKYRAID_RULESET_FILE", "")
	rules, err := config.ResolveRuleset(config.GetEnv("SKYRAID_RULESET", config.RulesetFull), rulesetFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid ruleset: %v\n", err)
		os.Exit(1)
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

	records := store.Open(config.GetEnv("SKYRAID_DATA_APP", config.DefaultDataApp), logger)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.SessionOptions{
		User:         os.Getenv("USER"),
		TermSizeFunc: draw.DefaultTermSizeFunc,
		Rulesets:     source,
		Store:        records,
		Logger:       logger,
	})
	if err := session.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func openLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, func() { _ = f.Close() }, nil
}
