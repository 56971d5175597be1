package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// FileWatcher reloads a ConfigManager when its backing file changes on disk
type FileWatcher struct {
	manager       *ConfigManager
	logger        hclog.Logger
	watcher       *fsnotify.Watcher
	path          string
	debounceDelay time.Duration

	mu      sync.Mutex
	pending *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher creates a watcher for the manager's current config path.
// The parent directory is watched so that editors replacing the file atomically are still seen.
func NewFileWatcher(manager *ConfigManager, logger hclog.Logger, debounceDelay time.Duration) (*FileWatcher, error) {
	path := manager.ConfigPath()
	if path == "" {
		return nil, fmt.Errorf("config manager has no file to watch")
	}
	if debounceDelay <= 0 {
		debounceDelay = 250 * time.Millisecond
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FileWatcher{
		manager:       manager,
		logger:        logger.Named("config-watcher"),
		watcher:       watcher,
		path:          absPath,
		debounceDelay: debounceDelay,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start begins watching the config file
func (fw *FileWatcher) Start() error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(fw.path), err)
	}

	fw.wg.Add(1)
	go fw.eventLoop()

	fw.logger.Info("watching configuration file", "path", fw.path)
	return nil
}

// Stop stops watching and waits for the event loop to exit
func (fw *FileWatcher) Stop() error {
	fw.cancel()
	err := fw.watcher.Close()

	fw.mu.Lock()
	if fw.pending != nil {
		fw.pending.Stop()
	}
	fw.mu.Unlock()

	fw.wg.Wait()
	return err
}

func (fw *FileWatcher) eventLoop() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("config watcher error", "error", err)

		case <-fw.ctx.Done():
			return
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	fw.logger.Debug("config file event", "operation", event.Op.String())
	fw.scheduleReload()
}

// scheduleReload coalesces bursts of events into a single reload
func (fw *FileWatcher) scheduleReload() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.pending != nil {
		fw.pending.Stop()
	}
	fw.pending = time.AfterFunc(fw.debounceDelay, func() {
		if fw.ctx.Err() != nil {
			return
		}
		if err := fw.manager.Reload(); err != nil {
			// keep serving with the last good configuration
			fw.logger.Error("failed to reload configuration", "error", err)
			return
		}
		fw.logger.Info("configuration reloaded", "path", fw.path)
	})
}
