package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultQueueSize     = 256
	DefaultRatePerMinute = 60
	sendTimeout          = 30 * time.Second
)

// Dispatcher queues messages and delivers them from a single background
// worker, at most RatePerMinute per minute. Send never blocks on the network.
type Dispatcher struct {
	Mailer  Mailer
	Logger  *slog.Logger
	limiter *rate.Limiter

	queue chan Message

	mu      sync.Mutex
	started bool
	closed  bool

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDispatcher creates a dispatcher in front of m. Non-positive sizes fall
// back to the defaults.
func NewDispatcher(m Mailer, logger *slog.Logger, ratePerMinute, queueSize int) *Dispatcher {
	if ratePerMinute <= 0 {
		ratePerMinute = DefaultRatePerMinute
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Dispatcher{
		Mailer:  m,
		Logger:  logger,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1),
		queue:   make(chan Message, queueSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Send enqueues msg for delivery. It fails fast with ErrQueueFull when the
// queue is saturated and ErrDispatcherClosed after Stop.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start begins the background worker. Call Stop() to drain and shut it down.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	go d.run()
	d.Logger.Info("mail dispatcher started", "rate", d.limiter.Limit(), "queue_size", cap(d.queue))
}

// Stop refuses new messages, delivers what is already queued without pacing
// and blocks until the worker has exited.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	started := d.started
	d.mu.Unlock()

	close(d.stopCh)
	if started {
		<-d.doneCh
	} else {
		d.drain()
	}
	d.Logger.Info("mail dispatcher stopped")
}

// Ready reports whether the dispatcher is accepting messages.
func (d *Dispatcher) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started && !d.closed
}

// Pending returns the number of queued messages.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-d.stopCh
		cancel()
	}()

	for {
		select {
		case msg := <-d.queue:
			if err := d.limiter.Wait(ctx); err != nil {
				// Stopping; deliver this one along with the rest of the queue.
				d.deliver(msg)
				d.drain()
				return
			}
			d.deliver(msg)
		case <-d.stopCh:
			d.drain()
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.Mailer.Send(ctx, msg); err != nil {
		d.Logger.Error("failed to send mail", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	d.Logger.Debug("mail sent", "to", msg.To, "subject", msg.Subject)
}
