// Package messaging implements the in-process event bus that connects
// commands to the notification fan-out.
package messaging

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
)

var (
	// ErrEventBusClosed is returned when publishing or subscribing after Close.
	ErrEventBusClosed = errors.New("event bus is closed")

	// ErrHandlerPanic replaces a handler panic, recorded as a failed execution.
	ErrHandlerPanic = errors.New("handler panicked")
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// The back office runs as a single instance, so events never leave the
// process. Fan-out side effects are best-effort: a handler error is
// logged, it never propagates to the publishing command.
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus is an in-process implementation of shared.EventBus.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	byType   map[shared.EventType][]shared.EventHandler
	catchAll []shared.EventHandler
	closed   bool

	async bool
	sem   chan struct{}
	wg    sync.WaitGroup

	logger  *slog.Logger
	metrics *EventBusMetrics
}

// InMemoryEventBusConfig contains configuration for InMemoryEventBus.
type InMemoryEventBusConfig struct {
	// AsyncMode runs handlers on the worker pool instead of inline.
	// Tests run synchronous buses; the server runs async.
	AsyncMode bool

	// WorkerPoolSize bounds concurrent handlers in async mode.
	WorkerPoolSize int

	Logger *slog.Logger

	EnableMetrics bool
}

// DefaultInMemoryEventBusConfig returns the server's defaults: async
// delivery over eight workers, with metrics on.
func DefaultInMemoryEventBusConfig() InMemoryEventBusConfig {
	return InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 8,
		EnableMetrics:  true,
	}
}

// NewInMemoryEventBus creates a bus from cfg, filling in missing pieces.
func NewInMemoryEventBus(cfg InMemoryEventBusConfig) *InMemoryEventBus {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}

	bus := &InMemoryEventBus{
		byType: make(map[shared.EventType][]shared.EventHandler),
		async:  cfg.AsyncMode,
		sem:    make(chan struct{}, cfg.WorkerPoolSize),
		logger: cfg.Logger,
	}
	if cfg.EnableMetrics {
		bus.metrics = &EventBusMetrics{published: make(map[shared.EventType]int64)}
	}
	return bus
}

// Subscribe registers a handler for one event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}

	b.byType[eventType] = append(b.byType[eventType], handler)
	b.logger.Debug("subscribed handler", "event_type", eventType)
	return nil
}

// SubscribeAll registers a handler that receives every event.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}

	b.catchAll = append(b.catchAll, handler)
	b.logger.Debug("subscribed global handler")
	return nil
}

// Publish delivers event to every matching handler. In async mode it
// returns as soon as the deliveries are queued.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	handlers, err := b.snapshot(event.EventType())
	if err != nil {
		return err
	}
	if len(handlers) == 0 {
		b.logger.Debug("no handlers for event", "event_type", event.EventType())
		return nil
	}

	if b.metrics != nil {
		b.metrics.recordPublish(event.EventType())
	}

	for _, h := range handlers {
		if b.async {
			b.queue(event, h)
		} else if err := b.run(event, h); err != nil {
			b.logger.Error("handler error", "event_type", event.EventType(), "error", err)
		}
	}
	return nil
}

// snapshot copies the handler list under the read lock so Publish never
// holds it while handlers run.
func (b *InMemoryEventBus) snapshot(et shared.EventType) ([]shared.EventHandler, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrEventBusClosed
	}

	out := make([]shared.EventHandler, 0, len(b.byType[et])+len(b.catchAll))
	out = append(out, b.byType[et]...)
	out = append(out, b.catchAll...)
	return out, nil
}

// queue hands one delivery to the worker pool. Deliveries queued before
// Close still run; Close waits for them.
func (b *InMemoryEventBus) queue(event shared.Event, handler shared.EventHandler) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		b.sem <- struct{}{}
		defer func() { <-b.sem }()

		if err := b.run(event, handler); err != nil {
			b.logger.Error("async handler error", "event_type", event.EventType(), "error", err)
		}
	}()
}

// run executes one handler, timing it and containing panics.
func (b *InMemoryEventBus) run(event shared.Event, handler shared.EventHandler) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked", "event_type", event.EventType(), "panic", r)
			err = ErrHandlerPanic
		}
		if b.metrics != nil {
			b.metrics.recordExecution(time.Since(start), err == nil)
		}
	}()
	return handler(event)
}

// Close stops accepting events and waits for queued deliveries to finish.
// Closing twice is a no-op.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("event bus closed")
	return nil
}

// Metrics returns the bus metrics, nil when disabled.
func (b *InMemoryEventBus) Metrics() *EventBusMetrics {
	return b.metrics
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// EventBusMetrics tracks throughput and handler outcomes. Read it through
// Snapshot.
type EventBusMetrics struct {
	mu sync.Mutex

	published map[shared.EventType]int64
	execs     int64
	successes int64
	totalTime time.Duration
}

func (m *EventBusMetrics) recordPublish(et shared.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[et]++
}

func (m *EventBusMetrics) recordExecution(d time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execs++
	if success {
		m.successes++
	}
	m.totalTime += d
}

// EventBusMetricsSnapshot is a point-in-time view of the metrics.
type EventBusMetricsSnapshot struct {
	TotalPublished         int64
	TotalHandlerExecs      int64
	HandlerSuccessRate     float64
	AverageHandlerDuration time.Duration
}

// Snapshot aggregates the counters. The success rate is 1.0 before any
// handler has run.
func (m *EventBusMetrics) Snapshot() EventBusMetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, n := range m.published {
		total += n
	}

	snap := EventBusMetricsSnapshot{
		TotalPublished:     total,
		TotalHandlerExecs:  m.execs,
		HandlerSuccessRate: 1.0,
	}
	if m.execs > 0 {
		snap.HandlerSuccessRate = float64(m.successes) / float64(m.execs)
		snap.AverageHandlerDuration = m.totalTime / time.Duration(m.execs)
	}
	return snap
}
