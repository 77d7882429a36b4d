// Package events provides an in-process bus for validation request lifecycle events
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/celestiaorg/verse/internal/logger"
)

// EventType represents the type of lifecycle event
type EventType string

const (
	// EventValidationRequested is emitted when a verifier raises a validation request
	EventValidationRequested EventType = "validation_requested"
	// EventProofAttached is emitted when a pending request becomes proved
	EventProofAttached EventType = "proof_attached"
	// EventChannelSize is the buffer size for the event channel
	EventChannelSize = 100
)

// Event represents a lifecycle event of a validation request
type Event struct {
	Type       EventType
	RequestID  uuid.UUID
	ModelID    uuid.UUID
	UserID     uuid.UUID // verifier for requests, uploader for proofs
	Digest     string
	OccurredAt time.Time
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

var (
	// handlers is a map of event types to their handlers
	handlers = make(map[EventType][]Handler)
	// handlersMu is a mutex for the handlers map
	handlersMu sync.RWMutex
	// eventChan is a channel for events
	eventChan = make(chan Event, EventChannelSize)
)

// Subscribe registers a handler for a specific event type
func Subscribe(eventType EventType, handler Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[eventType] = append(handlers[eventType], handler)
	logger.Debugf("Registered handler for event type: %s", eventType)
}

// Publish queues an event without blocking. Events are dropped when the buffer is full,
// which is also the case when no processing loop was started.
func Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	select {
	case eventChan <- event:
		logger.Debugf("Published event: %s (request: %s)", event.Type, event.RequestID)
	default:
		logger.Debugf("Dropped event: %s (request: %s)", event.Type, event.RequestID)
	}
}

// Start starts the event processing loop
func Start(ctx context.Context) {
	go processEvents(ctx, eventChan)
	logger.Info("Started event processing loop")
}

// processEvents handles events in the background
func processEvents(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping event processing loop")
			return
		case event := <-events:
			handlersMu.RLock()
			eventHandlers := handlers[event.Type]
			handlersMu.RUnlock()

			for _, handler := range eventHandlers {
				go func(h Handler, e Event) {
					if err := h(ctx, e); err != nil {
						logger.Errorf("Failed to handle event %s: %v", e.Type, err)
					}
				}(handler, event)
			}
		}
	}
}

// LogHandler writes every event it receives to the audit log
func LogHandler(_ context.Context, e Event) error {
	logger.InfoWithFields("validation event", map[string]interface{}{
		"event":       string(e.Type),
		"request_id":  e.RequestID.String(),
		"model_id":    e.ModelID.String(),
		"user_id":     e.UserID.String(),
		"digest":      e.Digest,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	})
	return nil
}
