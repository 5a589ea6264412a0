// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/metrics"
	"github.com/danielhkuo/elex/models"
)

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher implements election.Notifier with a bounded queue drained by a
// fixed set of workers. Notify never blocks: when the queue is full the
// message is dropped and logged.
type Dispatcher struct {
	sender   Sender
	composer Composer
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	wg     sync.WaitGroup
}

var _ election.Notifier = (*Dispatcher)(nil)

// NewDispatcher starts workers goroutines. Call Close to drain and stop them.
func NewDispatcher(sender Sender, composer Composer, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sender:   sender,
		composer: composer,
		logger:   logger,
		queue:    make(chan Message, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.sender.Send(context.Background(), msg); err != nil {
			metrics.Notifications.WithLabelValues(msg.Kind.String(), "failed").Inc()
			d.logger.Error("failed to send notification", "kind", msg.Kind.String(), "error", err)
			continue
		}
		metrics.Notifications.WithLabelValues(msg.Kind.String(), "sent").Inc()
	}
}

// Notify composes one message per voter and enqueues it.
func (d *Dispatcher) Notify(_ context.Context, voters []models.Voter, e models.Election, kind election.NotificationKind) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("notification dropped after shutdown", "election_id", e.ID, "count", len(voters))
		return
	}

	for _, v := range voters {
		msg, err := d.composer.Compose(v, e, kind)
		if err != nil {
			d.logger.Error("failed to compose notification", "election_id", e.ID, "error", err)
			continue
		}
		select {
		case d.queue <- msg:
			metrics.Notifications.WithLabelValues(kind.String(), "queued").Inc()
		default:
			metrics.Notifications.WithLabelValues(kind.String(), "dropped").Inc()
			d.logger.Warn("notification queue full, dropping message", "election_id", e.ID, "kind", kind.String())
		}
	}
}

// Close stops accepting messages and waits for queued ones to be sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}
