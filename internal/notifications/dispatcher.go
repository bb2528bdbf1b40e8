package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher fans a notification out to every registered notifier.
type Dispatcher struct {
	mu      sync.RWMutex
	targets []Notifier
}

// NewDispatcher creates a Dispatcher delivering to the given notifiers.
func NewDispatcher(targets ...Notifier) *Dispatcher {
	return &Dispatcher{targets: targets}
}

// Add registers another notifier.
func (d *Dispatcher) Add(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.targets = append(d.targets, n)
}

// Notify stamps n and hands it to every target.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	d.mu.RLock()
	targets := append([]Notifier(nil), d.targets...)
	d.mu.RUnlock()

	for _, t := range targets {
		t.Notify(ctx, n)
	}
}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	Log *zerolog.Logger
}

func (l LogNotifier) Notify(_ context.Context, n Notification) {
	ev := l.Log.Info()
	if n.Level == LevelError {
		ev = l.Log.Error()
	}
	ev.Str("level_ui", string(n.Level)).
		Str("project", n.ProjectID).
		Str("title", n.Title).
		Msg(n.Message)
}

// WebhookNotifier posts notifications as JSON to a URL. Delivery errors
// are logged and dropped.
type WebhookNotifier struct {
	URL    string
	Log    *zerolog.Logger
	client *http.Client
}

// NewWebhookNotifier creates a WebhookNotifier with a 10 second timeout.
func NewWebhookNotifier(url string, log *zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		URL: url,
		Log: log,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) {
	if err := w.send(ctx, n); err != nil && w.Log != nil {
		w.Log.Warn().Err(err).Str("url", w.URL).Msg("webhook delivery failed")
	}
}

func (w *WebhookNotifier) send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}
