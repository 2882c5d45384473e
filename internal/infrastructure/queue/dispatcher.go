package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-manager-api/internal/api/metrics"
	"github.com/taskhive/task-manager-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// MailDispatcher routes outbound emails to a fixed set of workers using
// consistent hashing on the recipient address, so emails for the same
// recipient are delivered in order. Delivery is fire-and-forget: failures
// are logged and counted, never reported to the enqueuer.
type MailDispatcher struct {
	workers []chan ports.EmailMessage
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.EmailMessage, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an email to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) Enqueue(msg ports.EmailMessage) {
	i := d.shardIndex(msg.To)
	d.workers[i] <- msg
	metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailMessage) {
	gauge := metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			gauge.Set(float64(len(ch)))

			if err := d.mailer.Send(ctx, msg); err != nil {
				metrics.EmailsSentTotal.WithLabelValues(msg.Template, "error").Inc()
				d.log.Error().Err(err).
					Str("template", msg.Template).
					Int("worker_id", id).
					Msg("email delivery failed")
				continue
			}

			metrics.EmailsSentTotal.WithLabelValues(msg.Template, "ok").Inc()
			d.log.Debug().Str("template", msg.Template).Msg("email sent")
		}
	}
}
