// Package refresh turns the booking event stream into per-tenant reload
// signals. Diary screens long-poll Wait; a burst of writes inside the
// coalescing window wakes them exactly once.
package refresh

import (
	"context"
	"sync"
	"time"

	"seatplan/pkg/kafka"
	"seatplan/pkg/logger"
)

// companyState tracks one tenant's change cursor and the pollers blocked on it.
type companyState struct {
	seq     uint64
	waiters map[chan uint64]struct{}
	pending bool
	timer   *time.Timer
}

// Refresher coalesces change events per company and fans them out to
// long-poll waiters. Delivery is at-least-once; a spurious wake costs one
// redundant refetch and nothing else.
type Refresher struct {
	mu        sync.Mutex
	companies map[string]*companyState
	window    time.Duration
	log       *logger.Logger
	closed    bool
}

func NewRefresher(window time.Duration, log *logger.Logger) *Refresher {
	return &Refresher{
		companies: make(map[string]*companyState),
		window:    window,
		log:       log,
	}
}

func (r *Refresher) state(companyID string) *companyState {
	st, ok := r.companies[companyID]
	if !ok {
		st = &companyState{waiters: make(map[chan uint64]struct{})}
		r.companies[companyID] = st
	}
	return st
}

// Notify records a change for the company. The first change opens a
// coalescing window; further changes inside it are absorbed into the same
// signal. The flush happens when the window elapses.
func (r *Refresher) Notify(companyID string) {
	if companyID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	st := r.state(companyID)
	if st.pending {
		return
	}
	st.pending = true
	st.timer = time.AfterFunc(r.window, func() {
		r.flush(companyID)
	})
}

func (r *Refresher) flush(companyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.companies[companyID]
	if !ok || !st.pending {
		return
	}
	st.pending = false
	st.seq++

	for ch := range st.waiters {
		// Buffered with capacity 1 and sent at most once per
		// registration, so this never blocks.
		ch <- st.seq
		delete(st.waiters, ch)
	}

	r.log.Debug("Refresh signal flushed", "company_id", companyID, "seq", st.seq)
}

// Cursor returns the company's current change sequence. Clients pass it back
// to Wait so changes landing between polls are not lost.
func (r *Refresher) Cursor(companyID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.companies[companyID]; ok {
		return st.seq
	}
	return 0
}

// Wait blocks until the company's sequence advances past cursor, the context
// is done, or the refresher shuts down. It returns the latest sequence and
// whether a change occurred.
func (r *Refresher) Wait(ctx context.Context, companyID string, cursor uint64) (uint64, bool) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return cursor, false
	}

	st := r.state(companyID)
	if st.seq > cursor {
		seq := st.seq
		r.mu.Unlock()
		return seq, true
	}

	ch := make(chan uint64, 1)
	st.waiters[ch] = struct{}{}
	r.mu.Unlock()

	select {
	case seq, ok := <-ch:
		if !ok {
			// Shutdown. Nothing changed as far as the client knows.
			return cursor, false
		}
		return seq, true
	case <-ctx.Done():
		r.mu.Lock()
		delete(st.waiters, ch)
		r.mu.Unlock()
		return cursor, false
	}
}

// Close wakes every waiter without advancing cursors and stops pending
// timers. Used during graceful shutdown so long-polls drain immediately.
func (r *Refresher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true

	for _, st := range r.companies {
		if st.timer != nil {
			st.timer.Stop()
		}
		st.pending = false
		for ch := range st.waiters {
			close(ch)
			delete(st.waiters, ch)
		}
	}
}

// Handler adapts the refresher to the consumer loop. The payload is ignored
// on purpose; the message key carries the company id and that is all an
// invalidation signal needs.
func (r *Refresher) Handler() kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		companyID := msg.Key
		if companyID == "" {
			companyID = msg.GetCompanyID()
		}
		if companyID == "" {
			r.log.Warn("Booking event without company id dropped",
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
			)
			return nil
		}
		r.Notify(companyID)
		return nil
	}
}
