package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// ChangedMsg is emitted when the config file changes on disk.
type ChangedMsg struct {
	Path string
}

// Watcher monitors the config file and emits ChangedMsg so a running
// program can reload delays, keymap overrides and feature flags.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	msgChan   chan tea.Msg
	stopChan  chan struct{}
	mu        sync.Mutex
	stopped   bool
}

// watcherDebounce batches the burst of events editors produce on save.
const watcherDebounce = 100 * time.Millisecond

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		path:      path,
		msgChan:   make(chan tea.Msg, 1),
		stopChan:  make(chan struct{}),
	}

	// Watch the parent directory so atomic renames and first creation are seen
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		slog.Debug("configwatcher: add dir", "err", err)
	}

	return w, nil
}

// Start begins watching and returns the message channel.
func (w *Watcher) Start() <-chan tea.Msg {
	go w.run()
	return w.msgChan
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true

	close(w.stopChan)
	w.fsWatcher.Close()
}

// Wait returns a command that blocks for the next message on ch. Re-issue
// it after each ChangedMsg to keep listening.
func Wait(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (w *Watcher) run() {
	defer close(w.msgChan)

	var debounceTimer *time.Timer
	name := filepath.Base(w.path)

	for {
		select {
		case <-w.stopChan:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			slog.Debug("configwatcher: event", "op", event.Op, "name", event.Name)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watcherDebounce, func() {
				select {
				case w.msgChan <- ChangedMsg{Path: w.path}:
				default:
				}
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Debug("configwatcher: error", "err", err)
		}
	}
}
