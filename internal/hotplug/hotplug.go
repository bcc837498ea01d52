// Package hotplug surfaces display connect and disconnect events from the
// kernel's udev netlink socket, so callers can re-enumerate instead of
// polling.
package hotplug

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"candela/internal/logging"
)

// Event is one DRM subsystem uevent.
type Event struct {
	// Action is the kernel action, e.g. "change" when a connector's state
	// flips.
	Action string
	// DevPath is the sysfs path of the device that changed.
	DevPath string
}

// Handler consumes events. It runs on the watcher goroutine; long work
// should be handed off.
type Handler func(ctx context.Context, ev Event)

// Watcher listens for DRM uevents and invokes a handler per event.
type Watcher struct {
	logger  *slog.Logger
	handler Handler

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewWatcher builds a watcher delivering events to handler.
func NewWatcher(logger *slog.Logger, handler Handler) *Watcher {
	return &Watcher{
		logger:  logging.NewComponentLogger(logger, "hotplug"),
		handler: handler,
	}
}

// Start connects to the udev netlink socket and begins dispatching events.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect to netlink socket: %w", err)
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	quit := w.quit
	go w.watchLoop(ctx, quit)

	w.logger.Info("hotplug watcher started",
		logging.String(logging.FieldEventType, "hotplug_watcher_started"),
	)
	return nil
}

// Stop shuts the watcher down. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.running = false

	w.logger.Info("hotplug watcher stopped",
		logging.String(logging.FieldEventType, "hotplug_watcher_stopped"),
	)
}

// Running reports whether the watcher is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, drmMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			w.dispatch(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(w.logger, "netlink watcher error", "hotplug_watcher_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "a hotplug event may have been missed"),
			)
		}
	}
}

// drmMatcher selects connector state changes: SUBSYSTEM=drm with
// ACTION=change|add|remove.
func drmMatcher() netlink.Matcher {
	action := "change|add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "drm",
		},
	})
	return rules
}

func (w *Watcher) dispatch(ctx context.Context, uevent netlink.UEvent) {
	ev := Event{
		Action:  string(uevent.Action),
		DevPath: uevent.Env["DEVPATH"],
	}
	w.logger.Debug("drm uevent",
		logging.String("action", ev.Action),
		logging.String("devpath", ev.DevPath),
	)
	if w.handler != nil {
		w.handler(ctx, ev)
	}
}
