package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/metrics"
	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned by Enqueue when the queue has no free slot.
var ErrQueueFull = errors.New("mail queue full")

// ErrDispatcherStopped is returned by Enqueue once Run has returned.
var ErrDispatcherStopped = errors.New("mail dispatcher stopped")

const DefaultSendTimeout = 30 * time.Second

// Dispatcher is a bounded queue drained by a fixed pool of workers.
type Dispatcher struct {
	queue       chan Message
	sender      Sender
	workers     int
	sendTimeout time.Duration
	logger      logging.Logger
	metrics     *metrics.Metrics

	mu      sync.RWMutex
	stopped bool
}

func NewDispatcher(s Sender, workers, queueSize int, l logging.Logger, m *metrics.Metrics) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		queue:       make(chan Message, queueSize),
		sender:      s,
		workers:     workers,
		sendTimeout: DefaultSendTimeout,
		logger:      l.With("module", "mail_dispatcher"),
		metrics:     m,
	}
}

// Enqueue schedules msg for delivery without blocking.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.metrics.Mail("dropped")
		d.logger.Warn(context.Background(), "mail dropped after shutdown", "template", msg.Template)
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- msg:
		d.metrics.SetMailQueueDepth(len(d.queue))
		return nil
	default:
		d.metrics.Mail("dropped")
		return ErrQueueFull
	}
}

// Run starts the workers and blocks until ctx is cancelled and the queue has
// been drained. Messages that arrive while the workers exit are counted as
// dropped, and later Enqueue calls fail with ErrDispatcherStopped.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info(ctx, "Starting mail dispatcher", "workers", d.workers)

	var g errgroup.Group
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			d.work(ctx)
			return nil
		})
	}
	err := g.Wait()

	if n := d.stop(); n > 0 {
		d.logger.Warn(ctx, "mail dropped on shutdown", "count", n)
	}
	d.logger.Info(ctx, "Mail dispatcher stopped")
	return err
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case msg := <-d.queue:
			d.deliver(context.Background(), msg)
		default:
			return
		}
	}
}

// stop closes the dispatcher to new messages and discards what is still
// queued, returning how many were discarded.
func (d *Dispatcher) stop() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	n := 0
	for {
		select {
		case <-d.queue:
			n++
			d.metrics.Mail("dropped")
		default:
			d.metrics.SetMailQueueDepth(0)
			return n
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	d.metrics.SetMailQueueDepth(len(d.queue))

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, msg); err != nil {
		d.metrics.Mail("failed")
		d.logger.Error(ctx, "mail delivery failed", "template", msg.Template, "error", err)
		return
	}
	d.metrics.Mail("sent")
	d.logger.Debug(ctx, "mail delivered", "template", msg.Template)
}
