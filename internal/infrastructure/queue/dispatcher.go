package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/grandstay/booking-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher writes transition audit records through a fixed set of workers,
// sharded on the booking id so records for one booking are written in order.
type Dispatcher struct {
	workers []chan ports.TransitionRecord
	repo    ports.AuditRepository
	log     zerolog.Logger
	onDrop  func()

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. onDrop, when set, is called
// for every record discarded because its shard is full.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, onDrop func(), log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.TransitionRecord, numWorkers),
		repo:    repo,
		log:     log,
		onDrop:  onDrop,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TransitionRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close has drained their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues rec without blocking. When the shard is full the record is
// dropped and logged.
func (d *Dispatcher) Record(rec ports.TransitionRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Int64("booking_id", rec.BookingID).Msg("audit dispatcher closed, record dropped")
		return
	}

	select {
	case d.workers[d.shardIndex(rec.BookingID)] <- rec:
	default:
		if d.onDrop != nil {
			d.onDrop()
		}
		d.log.Warn().
			Int64("booking_id", rec.BookingID).
			Str("outcome", rec.Outcome).
			Msg("audit queue full, record dropped")
	}
}

// Close stops accepting records and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a booking id deterministically to a worker index.
func (d *Dispatcher) shardIndex(bookingID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(bookingID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TransitionRecord) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			d.write(ctx, id, rec)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, worker int, rec ports.TransitionRecord) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := d.repo.InsertTransition(writeCtx, rec); err != nil {
		d.log.Error().Err(err).
			Int64("booking_id", rec.BookingID).
			Int("worker_id", worker).
			Msg("audit write failed")
	}
}

var _ ports.TransitionRecorder = (*Dispatcher)(nil)
