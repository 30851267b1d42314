/*Package mailbox implements the single-slot, latest-wins handoff
between a camera's I/O loop and the aspect pipeline's consumer loop.

The shape follows the same producer/consumer split as comm.Pool: a
mutex guards the shared slot, and callers that need to block wait on a
channel rather than spinning. Where comm.Pool hands out exclusive
leases on a fixed-size set of connections, a Mailbox holds exactly one
slot and every Publish overwrites whatever was there — a consumer that
falls behind the producer is expected to skip frames, not queue them,
matching the one-shot "frame ready" semaphore used in this codebase's
original multi-threaded acquisition loop.
*/
package mailbox

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.jpl.nasa.gov/bdube/aspect/camera"
)

// Mailbox holds at most one camera.Frame. Publish always succeeds
// immediately for the caller's own slot-write (any previous,
// un-Taken frame is simply dropped); Take is non-blocking and reports
// whether a frame was waiting. Wait blocks until the next Publish or
// until ctx is done.
type Mailbox struct {
	mu       sync.Mutex
	frame    camera.Frame
	hasFrame bool
	ready    chan struct{}

	limiter *rate.Limiter
}

// New returns an empty Mailbox. If limit is positive, Publish is paced
// to at most limit publishes per second with the given burst — this is
// how a free-running camera is throttled down to the aspect pipeline's
// processing cadence without the producer blocking on the consumer
// directly.
func New(limit rate.Limit, burst int) *Mailbox {
	m := &Mailbox{ready: make(chan struct{})}
	if limit > 0 {
		m.limiter = rate.NewLimiter(limit, burst)
	}
	return m
}

// Publish waits for ctx and (if configured) the rate limiter, then
// deposits f into the mailbox, overwriting any frame already waiting
// there, and wakes any Wait callers.
func (m *Mailbox) Publish(ctx context.Context, f camera.Frame) error {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.frame = f
	m.hasFrame = true
	old := m.ready
	m.ready = make(chan struct{})
	m.mu.Unlock()

	close(old)
	return nil
}

// Take removes and returns whatever frame is in the mailbox, if any.
// It never blocks.
func (m *Mailbox) Take() (camera.Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasFrame {
		return camera.Frame{}, false
	}
	f := m.frame
	m.hasFrame = false
	return f, true
}

// Wait blocks until the next Publish call, or until ctx is done.
func (m *Mailbox) Wait(ctx context.Context) error {
	m.mu.Lock()
	ready := m.ready
	m.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
