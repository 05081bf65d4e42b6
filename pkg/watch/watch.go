package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/events"
	"github.com/cuemby/modcluster/pkg/log"
	"github.com/cuemby/modcluster/pkg/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Handler receives every document that parsed successfully.
type Handler func(doc *codec.Document)

// Watcher re-parses a subsystem file whenever it changes. Bursts of file
// events within the debounce interval cause a single reload.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	broker   *events.Broker
	logger   zerolog.Logger

	fsw      *fsnotify.Watcher
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a watcher for path. broker may be nil.
func New(path string, debounce time.Duration, handler Handler, broker *events.Broker) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		handler:  handler,
		broker:   broker,
		logger:   log.WithComponent("watch"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start loads the file once and then watches its directory. Editors that
// replace files by rename are handled because the directory is watched
// rather than the file. An invalid initial file is reported but does not
// stop the watcher.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw

	_ = w.Reload()
	go w.run()

	w.logger.Info().
		Str("path", w.path).
		Dur("debounce", w.debounce).
		Msg("Watching configuration file")
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.fsw != nil {
			_ = w.fsw.Close()
			<-w.doneCh
		}
	})
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-timerC:
			timerC = nil
			_ = w.Reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if shouldTrigger(w.path, evt) {
				resetTimer()
			}
		}
	}
}

// shouldTrigger reports whether evt concerns the watched file.
func shouldTrigger(path string, evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(evt.Name) == path
}

// Reload parses the file now and reports the outcome to the handler,
// metrics, health and the event broker.
func (w *Watcher) Reload() error {
	doc, err := w.parse()
	if err != nil {
		metrics.ReloadsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		metrics.UpdateComponent(metrics.ComponentConfig, false, err.Error())
		w.logger.Error().Err(err).Str("path", w.path).Msg("Configuration reload failed")
		w.publish(events.EventFileInvalid, err.Error(), nil)
		return err
	}

	metrics.ReloadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.UpdateComponent(metrics.ComponentConfig, true, "")
	w.logger.Info().
		Str("path", w.path).
		Str("namespace", doc.Namespace).
		Msg("Configuration reloaded")
	if w.handler != nil {
		w.handler(doc)
	}
	w.publish(events.EventFileReloaded, "configuration reloaded",
		map[string]string{"namespace": doc.Namespace, "version": doc.Version.String()})
	return nil
}

func (w *Watcher) parse() (*codec.Document, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return codec.Parse(f)
}

func (w *Watcher) publish(t events.EventType, msg string, metadata map[string]string) {
	if w.broker == nil {
		return
	}
	if metadata == nil {
		metadata = make(map[string]string)
	}
	metadata["path"] = w.path
	w.broker.Publish(events.NewEvent(t, msg, metadata))
}
