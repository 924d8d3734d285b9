package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

const (
	successLogCap = 100
	errorLogCap   = 50
)

// DeliveryRecord is one entry of the dispatcher's bounded logs.
type DeliveryRecord struct {
	Notification *domain.Notification `json:"notification"`
	Error        string               `json:"error,omitempty"`
	At           time.Time            `json:"at"`
}

// Dispatcher drains the queue with exactly one background worker. A
// delivery failure is terminal for that item: it lands in the bounded
// error log, is never re-enqueued automatically, and never stops the
// loop. A slow channel call stalls the single worker; there is no
// per-item delivery timeout yet.
type Dispatcher struct {
	queue    *Queue
	channels map[domain.ChannelType]Channel
	logger   *slog.Logger
	timeout  time.Duration

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	done      chan struct{}
	succeeded []DeliveryRecord
	failed    []DeliveryRecord
}

func NewDispatcher(queue *Queue, channels []Channel, logger *slog.Logger, dequeueTimeout time.Duration) *Dispatcher {
	if dequeueTimeout <= 0 {
		dequeueTimeout = time.Second
	}

	byType := make(map[domain.ChannelType]Channel, len(channels))
	for _, ch := range channels {
		byType[ch.Type()] = ch
	}

	return &Dispatcher{
		queue:    queue,
		channels: byType,
		logger:   logger,
		timeout:  dequeueTimeout,
	}
}

// Start launches the worker. Starting a running dispatcher is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.done = make(chan struct{})

	go d.run(d.stopCh, d.done)
	d.logger.Info("dispatcher started", "dequeue_timeout", d.timeout)
}

// Stop signals the worker and waits for it to observe the flag on its
// next timeout tick. Stopping a stopped dispatcher is a no-op.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	stopCh, done := d.stopCh, d.done
	d.running = false
	d.mu.Unlock()

	close(stopCh)
	<-done
	d.logger.Info("dispatcher stopped")
}

func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *Dispatcher) run(stopCh, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		n, ok := d.queue.Dequeue(d.timeout)
		if !ok {
			continue
		}
		d.deliver(n)
	}
}

// deliver sends one notification and records the outcome. Panics from a
// channel are converted to a delivery failure so the loop survives.
func (d *Dispatcher) deliver(n *domain.Notification) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("channel panic: %v", r)
			}
		}()

		ch, ok := d.channels[n.Channel]
		if !ok {
			return domain.ErrInvalidChannel
		}
		return ch.Send(context.Background(), n)
	}()

	if err != nil {
		n.State = domain.NotificationFailed
		d.record(&d.failed, errorLogCap, DeliveryRecord{
			Notification: n,
			Error:        err.Error(),
			At:           time.Now().UTC(),
		})
		d.logger.Error("notification delivery failed",
			"notification_id", n.ID,
			"channel", n.Channel,
			"error", err,
		)
		return
	}

	n.State = domain.NotificationSent
	d.record(&d.succeeded, successLogCap, DeliveryRecord{
		Notification: n,
		At:           time.Now().UTC(),
	})
	d.logger.Info("notification delivered",
		"notification_id", n.ID,
		"channel", n.Channel,
		"priority", n.Priority,
	)
}

func (d *Dispatcher) record(log *[]DeliveryRecord, limit int, r DeliveryRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	*log = append(*log, r)
	if len(*log) > limit {
		*log = (*log)[len(*log)-limit:]
	}
}

// SuccessLog returns the most recent deliveries, oldest first.
func (d *Dispatcher) SuccessLog() []DeliveryRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeliveryRecord, len(d.succeeded))
	copy(out, d.succeeded)
	return out
}

// ErrorLog returns the most recent failures, oldest first.
func (d *Dispatcher) ErrorLog() []DeliveryRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeliveryRecord, len(d.failed))
	copy(out, d.failed)
	return out
}

// Resend re-enqueues a failed notification as a fresh pending copy.
// This is the only remediation path for a delivery failure.
func (d *Dispatcher) Resend(id uuid.UUID) error {
	d.mu.Lock()
	var found *domain.Notification
	for _, r := range d.failed {
		if r.Notification.ID == id {
			found = r.Notification
			break
		}
	}
	d.mu.Unlock()

	if found == nil {
		return domain.ErrNotificationNotFound
	}

	fresh := *found
	fresh.ID = uuid.New()
	fresh.State = domain.NotificationPending
	fresh.CreatedAt = time.Now().UTC()
	return d.queue.Enqueue(&fresh)
}
