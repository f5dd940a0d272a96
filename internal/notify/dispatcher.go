package notify

import (
	"context"
	"sync"

	"github.com/medilink/telehealth-scheduling/internal/observability/metrics"
	"github.com/medilink/telehealth-scheduling/pkg/logging"
)

// Dispatcher decouples notification delivery from the request path. Enqueue
// never blocks and never reports delivery failure back to the producer;
// failures are logged and counted, nothing more. A booking that already
// committed its state change cannot be failed by its notifications.
type Dispatcher struct {
	ch      chan Message
	sender  Sender
	store   Store
	metrics *metrics.NotificationMetrics
	logger  *logging.Logger

	wg sync.WaitGroup
}

func NewDispatcher(sender Sender, store Store, queueSize int, m *metrics.NotificationMetrics, logger *logging.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		ch:      make(chan Message, queueSize),
		sender:  sender,
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// Enqueue accepts a message for delivery. When the queue is full the message
// is dropped and logged; the caller is never blocked.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.ch <- msg:
	default:
		d.logger.Error("notification queue full, dropping message",
			"recipient", msg.Recipient,
			"template", msg.Template,
		)
		d.metrics.ObserveSend(msg.Template, "dropped")
	}
}

// Run consumes the queue until ctx is cancelled, then drains what is already
// buffered.
func (d *Dispatcher) Run(ctx context.Context) {
	d.wg.Add(1)
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case msg := <-d.ch:
					d.deliver(context.Background(), msg)
				default:
					return
				}
			}
		case msg := <-d.ch:
			d.deliver(ctx, msg)
		}
	}
}

// Wait blocks until Run has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Error("notification delivery failed",
			"recipient", msg.Recipient,
			"template", msg.Template,
			"error", err,
		)
		d.metrics.ObserveSend(msg.Template, "failed")
		return
	}

	d.metrics.ObserveSend(msg.Template, "sent")
	d.logger.Info("notification delivered",
		"recipient", msg.Recipient,
		"template", msg.Template,
	)

	if d.store == nil {
		return
	}
	if err := d.store.Record(ctx, msg); err != nil {
		d.logger.Error("notification log write failed", "error", err)
	}
}
