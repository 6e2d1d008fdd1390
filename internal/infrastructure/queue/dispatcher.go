package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
	"github.com/bookstore/bookstore-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	defaultDelay   = 2 * time.Second
)

// Config sizes the dispatcher. Zero values select the defaults.
type Config struct {
	Workers int
	Buffer  int
	// Delay is waited before each delivery. Negative disables it.
	Delay time.Duration
}

// Dispatcher delivers author notifications on background workers, detached
// from the request that produced them. Notifications are sharded by
// recipient. There is no retry and no ordering guarantee across recipients;
// anything still queued at shutdown is lost.
type Dispatcher struct {
	workers []chan domain.Notification
	sender  ports.NotificationSender
	delay   time.Duration
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher. Call Start before Notify.
func NewDispatcher(cfg Config, sender ports.NotificationSender, log zerolog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = channelBuffer
	}
	switch {
	case cfg.Delay == 0:
		cfg.Delay = defaultDelay
	case cfg.Delay < 0:
		cfg.Delay = 0
	}

	d := &Dispatcher{
		workers: make([]chan domain.Notification, cfg.Workers),
		sender:  sender,
		delay:   cfg.Delay,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, cfg.Buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify queues n without blocking. When the worker's channel is full the
// notification is dropped and logged.
func (d *Dispatcher) Notify(n domain.Notification) {
	idx := d.shardIndex(n.Recipient)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("recipient", n.Recipient).
			Int64("book_id", n.BookID).
			Int("worker_id", idx).
			Msg("notification queue full, dropping notification")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, n domain.Notification) {
	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.NotificationsTotal.WithLabelValues("interrupted").Inc()
			d.log.Warn().Str("recipient", n.Recipient).Int("worker_id", id).Msg("notification interrupted")
			return
		case <-timer.C:
		}
	}

	start := time.Now()
	err := d.sender.Send(ctx, n)
	metrics.NotificationDeliveryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("recipient", n.Recipient).
			Int64("book_id", n.BookID).
			Int("worker_id", id).
			Msg("notification delivery failed")
		return
	}

	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	d.log.Info().
		Str("recipient", n.Recipient).
		Int64("book_id", n.BookID).
		Msgf("Notification sent to %s: %s", n.Recipient, n.Message())
}

// LogSender is the sender used when no transport is configured: delivery is
// the log line written by the dispatcher.
type LogSender struct{}

func (LogSender) Send(context.Context, domain.Notification) error { return nil }
