// Package tracking records analytics events for the template modal.
package tracking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deCybercop/wp-calypso/internal/models"
)

// Event names
const (
	EventModalView      = "calypso_page_template_modal_view"
	EventTemplateSelect = "calypso_page_template_modal_template_select"
	EventModalDismiss   = "calypso_page_template_modal_dismiss"
)

// Event is one analytics event
type Event struct {
	Name       string             `json:"name"`
	Properties map[string]any     `json:"properties"`
	User       *models.TracksUser `json:"user,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Sink delivers events somewhere
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// Tracker stamps events with the current identity and hands them to a sink.
// Delivery failures are logged, never returned: tracking must not affect the
// modal.
type Tracker struct {
	sink Sink

	mu   sync.Mutex
	user *models.TracksUser
}

// New returns a tracker writing to sink; a nil sink logs events
func New(sink Sink) *Tracker {
	if sink == nil {
		sink = LogSink{}
	}
	return &Tracker{sink: sink}
}

// InitializeWithIdentity attaches user to every later event
func (t *Tracker) InitializeWithIdentity(user models.TracksUser) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.user = &user
}

// TrackView records that the modal was shown
func (t *Tracker) TrackView(ctx context.Context, segmentID int64, verticalID string) {
	t.record(ctx, EventModalView, map[string]any{
		"segment_id":  segmentID,
		"vertical_id": verticalID,
	})
}

// TrackSelection records that a template was picked
func (t *Tracker) TrackSelection(ctx context.Context, segmentID int64, verticalID, template string) {
	t.record(ctx, EventTemplateSelect, map[string]any{
		"segment_id":  segmentID,
		"vertical_id": verticalID,
		"template":    template,
	})
}

// TrackDismiss records that the modal was closed without a selection
func (t *Tracker) TrackDismiss(ctx context.Context, segmentID int64, verticalID string) {
	t.record(ctx, EventModalDismiss, map[string]any{
		"segment_id":  segmentID,
		"vertical_id": verticalID,
	})
}

func (t *Tracker) record(ctx context.Context, name string, props map[string]any) {
	t.mu.Lock()
	user := t.user
	t.mu.Unlock()

	e := Event{Name: name, Properties: props, User: user, Timestamp: time.Now().UTC()}
	if err := t.sink.Record(ctx, e); err != nil {
		slog.Debug("tracking: record", "event", name, "err", err)
	}
}

// LogSink writes events to the default slog logger
type LogSink struct{}

// Record logs e at info level
func (LogSink) Record(ctx context.Context, e Event) error {
	attrs := []any{"event", e.Name}
	for k, v := range e.Properties {
		attrs = append(attrs, k, v)
	}
	if e.User != nil {
		attrs = append(attrs, "user", e.User.Username)
	}
	slog.InfoContext(ctx, "tracks", attrs...)
	return nil
}

// MultiSink records to every sink and returns the first error
type MultiSink []Sink

// Record fans e out to all sinks
func (m MultiSink) Record(ctx context.Context, e Event) error {
	var first error
	for _, s := range m {
		if err := s.Record(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Recorder keeps events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record appends e
func (r *Recorder) Record(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the recorded event names in order
func (r *Recorder) Names() []string {
	var names []string
	for _, e := range r.Events() {
		names = append(names, e.Name)
	}
	return names
}
