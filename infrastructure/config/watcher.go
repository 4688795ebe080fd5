package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// RuntimeSettings are the values that may change without a restart
type RuntimeSettings struct {
	LogLevel string `yaml:"logLevel"`
}

// Watcher reloads RuntimeSettings when the config file changes
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	onChange func(RuntimeSettings)
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher watches path and its directory, so editors that save by rename are seen
func NewWatcher(path string, logger *zap.Logger, onChange func(RuntimeSettings)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:     path,
		watcher:  fw,
		logger:   logger,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for configuration changes
func (w *Watcher) Start() {
	go w.loop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop stops the watcher and waits for its goroutine
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		<-w.doneCh
	})
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	settings, err := ReadRuntimeSettings(w.path)
	if err != nil {
		w.logger.Warn("Ignoring unreadable config change", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("Configuration reloaded", zap.String("logLevel", settings.LogLevel))
	w.onChange(settings)
}

// ReadRuntimeSettings reads the reloadable subset of a config file
func ReadRuntimeSettings(path string) (RuntimeSettings, error) {
	var s RuntimeSettings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// ApplyLogLevel sets level from a textual level; empty or unknown values are ignored
func ApplyLogLevel(level zap.AtomicLevel, text string) bool {
	if text == "" {
		return false
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		return false
	}
	level.SetLevel(l)
	return true
}
