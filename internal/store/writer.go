package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/idilsaglam/cardtodo/internal/model"
)

// writer persists snapshots on its own goroutine. A snapshot queued while a
// save is in flight replaces any older queued snapshot, so the last snapshot
// handed over is always the last one written.
type writer struct {
	save func(context.Context, []model.Record) error
	log  *zap.Logger

	mu      sync.Mutex
	next    []model.Record
	queued  bool
	busy    bool
	lastErr error
	settled chan struct{} // closed whenever nothing is queued or in flight
	closed  bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

func newWriter(save func(context.Context, []model.Record) error, log *zap.Logger) *writer {
	settled := make(chan struct{})
	close(settled)
	w := &writer{
		save:    save,
		log:     log,
		settled: settled,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue hands a snapshot to the writer and returns immediately.
func (w *writer) enqueue(snapshot []model.Record) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.log.Warn("write dropped, store is closed", zap.Int("count", len(snapshot)))
		return
	}
	if !w.queued && !w.busy {
		w.settled = make(chan struct{})
	}
	if w.queued {
		w.log.Debug("coalescing pending write")
	}
	w.next = snapshot
	w.queued = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if !w.queued {
			if w.busy {
				w.busy = false
				close(w.settled)
			}
			w.mu.Unlock()
			return
		}
		snapshot := w.next
		w.next = nil
		w.queued = false
		w.busy = true
		w.mu.Unlock()

		err := w.save(context.Background(), snapshot)

		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()
	}
}

// flush blocks until every queued snapshot has been written and returns the
// result of the most recent write.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	if !w.queued && !w.busy {
		err := w.lastErr
		w.mu.Unlock()
		return err
	}
	settled := w.settled
	w.mu.Unlock()

	select {
	case <-settled:
	case <-ctx.Done():
		return ctx.Err()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// close flushes and stops the goroutine. Later enqueues are dropped.
func (w *writer) close(ctx context.Context) error {
	err := w.flush(ctx)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return err
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	select {
	case <-w.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}
