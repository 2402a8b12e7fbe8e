package mediasync

import (
	"sync"

	"editor-media-sync/internal/model"
)

// dispatcher serializes event delivery onto a single goroutine so the sink
// always consumes from one logical context, regardless of which goroutine
// the upload manager or a resolution attempt reported from. FIFO order is
// preserved, which keeps per-item event sequences in generation order.
type dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []model.UpdateEvent
	closed bool
	wg     sync.WaitGroup
}

func newDispatcher(deliver func(model.UpdateEvent)) *dispatcher {
	d := &dispatcher{}
	d.cond = sync.NewCond(&d.mu)

	d.wg.Add(1)
	go d.run(deliver)
	return d
}

func (d *dispatcher) enqueue(event model.UpdateEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.queue = append(d.queue, event)
	d.cond.Signal()
}

func (d *dispatcher) run(deliver func(model.UpdateEvent)) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 && d.closed {
			d.mu.Unlock()
			return
		}
		event := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		deliver(event)
	}
}

// close stops the loop after draining already-queued events and waits for
// the delivery goroutine to exit.
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()

	d.wg.Wait()
}
