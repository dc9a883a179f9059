package orchestration

import "sync"

// deviceCalls runs capture and playback calls one at a time, in the order
// they were queued, on a goroutine of its own. Queuing never blocks, so the
// controller loop keeps handling events while a device dials out.
type deviceCalls struct {
	mu      sync.Mutex
	pending []func()
	closed  bool

	wake     chan struct{}
	finished chan struct{}
}

func newDeviceCalls() *deviceCalls {
	return &deviceCalls{
		wake:     make(chan struct{}, 1),
		finished: make(chan struct{}),
	}
}

// Do queues call. Calls queued after close are dropped.
func (d *deviceCalls) Do(call func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, call)
	d.mu.Unlock()

	d.signal()
}

func (d *deviceCalls) run() {
	defer close(d.finished)

	for {
		d.mu.Lock()
		calls := d.pending
		d.pending = nil
		closed := d.closed
		d.mu.Unlock()

		if len(calls) == 0 {
			if closed {
				return
			}
			<-d.wake
			continue
		}

		for _, call := range calls {
			call()
		}
	}
}

// close lets already queued calls run and then stops run.
func (d *deviceCalls) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.signal()
}

func (d *deviceCalls) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}
