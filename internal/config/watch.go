package config

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce waits for a burst of writes to settle before reloading.
const reloadDebounce = 100 * time.Millisecond

// RulesetSource hands out the current ruleset. Games read it once at
// construction, so a swap only affects games started afterwards.
type RulesetSource struct {
	current atomic.Pointer[Ruleset]
}

// NewRulesetSource creates a source holding r.
func NewRulesetSource(r *Ruleset) *RulesetSource {
	s := &RulesetSource{}
	s.current.Store(r)
	return s
}

// Load returns the current ruleset.
func (s *RulesetSource) Load() *Ruleset {
	return s.current.Load()
}

// Store replaces the current ruleset.
func (s *RulesetSource) Store(r *Ruleset) {
	s.current.Store(r)
}

// Watcher reloads a ruleset file on change and swaps it into a RulesetSource.
// Invalid files are reported on Errors and leave the source untouched.
type Watcher struct {
	watcher *fsnotify.Watcher
	source  *RulesetSource
	path    string
	logger  *log.Logger
	Reloads chan *Ruleset
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches the directory holding path. Watching the directory
// rather than the file survives editors that replace files on save.
func NewWatcher(path string, source *RulesetSource, logger *log.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	watcher := &Watcher{
		watcher: w,
		source:  source,
		path:    abs,
		logger:  logger.WithPrefix("ruleset"),
		Reloads: make(chan *Ruleset, 4),
		Errors:  make(chan error, 4),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops watching. Reloads and Errors are closed once the watch loop exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Reloads)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isRulesetFile(event.Name) || filepath.Clean(event.Name) != w.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	r, err := LoadRuleset(w.path)
	if err != nil {
		w.logger.Warn("reload rejected", "path", w.path, "err", err)
		w.report(err)
		return
	}
	w.source.Store(r)
	w.logger.Info("reloaded", "path", w.path, "name", r.Name)
	select {
	case w.Reloads <- r:
	default:
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}

func isRulesetFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
