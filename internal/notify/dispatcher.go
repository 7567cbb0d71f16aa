package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/contactrelay/backend/internal/metrics"
)

// Sender delivers a text message to one recipient on the messaging platform.
type Sender interface {
	Send(ctx context.Context, recipientID, text string) error
}

// Dispatcher fans a notification out to a fixed set of recipients.
type Dispatcher struct {
	sender     Sender
	recipients []string

	mu     sync.Mutex // guards closed and wg.Add
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. recipients is copied.
func NewDispatcher(sender Sender, recipients []string) *Dispatcher {
	return &Dispatcher{
		sender:     sender,
		recipients: append([]string(nil), recipients...),
	}
}

// Recipients returns the configured recipient identifiers.
func (d *Dispatcher) Recipients() []string {
	return append([]string(nil), d.recipients...)
}

// Broadcast starts one delivery per recipient and returns without waiting.
// Deliveries outlive ctx's cancellation; a failed delivery is logged and never retried.
// After Close, Broadcast drops the notification.
func (d *Dispatcher) Broadcast(ctx context.Context, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		slog.Warn("dispatcher closed, notification dropped", "recipients", len(d.recipients))
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, id := range d.recipients {
		d.wg.Add(1)
		metrics.DeliveriesInFlight.Inc()
		go func(id string) {
			defer d.wg.Done()
			defer metrics.DeliveriesInFlight.Dec()
			d.deliver(ctx, id, text)
		}(id)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id, text string) {
	if err := d.sender.Send(ctx, id, text); err != nil {
		metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
		slog.Warn("failed to send message to admin", "admin_id", id, "error", err)
		return
	}
	metrics.DeliveriesTotal.WithLabelValues("sent").Inc()
	slog.Debug("notified admin", "admin_id", id)
}

// Wait blocks until every delivery started so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting broadcasts and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
