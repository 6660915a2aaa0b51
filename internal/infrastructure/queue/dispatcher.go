// Package queue moves audit writes off the request path.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/poing/admin-console/internal/api/metrics"
	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned by Record when the actor's worker is saturated.
var ErrQueueFull = errors.New("audit queue is full")

// AuditDispatcher implements ports.AuditRecorder by handing entries to a fixed
// set of workers. Entries are sharded on the actor id, so one staff member's
// actions are written in the order they happened.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	sink    ports.AuditRecorder
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers
// writing to sink. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.AuditRecorder, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain what is queued and stop once ctx is
// cancelled; Wait blocks until they have.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record queues the entry without blocking the caller.
func (d *AuditDispatcher) Record(_ context.Context, entry domain.AuditEntry) error {
	select {
	case d.workers[d.shardIndex(entry.ActorID)] <- entry:
		return nil
	default:
		return ErrQueueFull
	}
}

// shardIndex maps an actor id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(actorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actorID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case entry := <-ch:
			d.write(ctx, id, entry)
		}
	}
}

// drain flushes what is left after shutdown with a fresh context.
func (d *AuditDispatcher) drain(id int, ch <-chan domain.AuditEntry) {
	for {
		select {
		case entry := <-ch:
			d.write(context.Background(), id, entry)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, entry domain.AuditEntry) {
	if err := d.sink.Record(ctx, entry); err != nil {
		metrics.AuditWriteFailuresTotal.WithLabelValues(string(entry.Action)).Inc()
		d.log.Error().Err(err).
			Str("action", string(entry.Action)).
			Str("actor_id", entry.ActorID).
			Int("worker_id", id).
			Msg("audit write failed")
	}
}
