package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// EventHandler is a function that handles a domain event
type EventHandler func(ctx context.Context, event DomainEvent) error

// Publisher is what application services depend on to announce changes
type Publisher interface {
	Dispatch(ctx context.Context, event DomainEvent) error
}

// Dispatcher dispatches domain events to registered handlers
type Dispatcher struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string][]EventHandler),
		logger:   logger.With(slog.String("component", "events")),
	}
}

// Register registers an event handler for one or more event types
func (d *Dispatcher) Register(handler EventHandler, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, eventType := range eventTypes {
		d.handlers[eventType] = append(d.handlers[eventType], handler)
	}
}

// Dispatch dispatches an event to all registered handlers and waits for them
func (d *Dispatcher) Dispatch(ctx context.Context, event DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers[event.EventType()]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h EventHandler) {
			defer wg.Done()
			if err := h(ctx, event); err != nil {
				d.logger.Warn("event handler failed",
					slog.String("event_type", event.EventType()),
					slog.String("event_id", event.EventID()),
					slog.String("aggregate_id", event.AggregateID()),
					slog.String("environment", EnvironmentOf(event)),
					slog.Any("error", err))
				errChan <- err
			}
		}(handler)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("dispatching %s: %w", event.EventType(), errors.Join(errs...))
	}

	return nil
}

// DispatchAll dispatches multiple events
func (d *Dispatcher) DispatchAll(ctx context.Context, events []DomainEvent) error {
	for _, event := range events {
		if err := d.Dispatch(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Dispatch(context.Context, DomainEvent) error { return nil }
