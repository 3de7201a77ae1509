package kernel

import "sync/atomic"

// queue is a fixed-capacity FIFO of messages.
//
// Any number of producers (main loop and interrupt handlers) push inside an
// interrupt-masked critical section; only the main loop pops. Slots are
// allocated once, so push never allocates.
type queue struct {
	_     [0]func() // prevent accidental copying.
	irq   Interrupts
	head  atomic.Uint64
	tail  atomic.Uint64
	slots []Message
}

func newQueue(capacity int, irq Interrupts) *queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &queue{irq: irq, slots: make([]Message, capacity)}
}

func (q *queue) capacity() uint64 { return uint64(len(q.slots)) }

// push enqueues msg, returning false if the queue is full.
func (q *queue) push(msg Message) bool {
	state := q.irq.Disable()
	head := q.head.Load()
	if head-q.tail.Load() >= q.capacity() {
		q.irq.Restore(state)
		return false
	}
	q.slots[head%q.capacity()] = msg
	q.head.Store(head + 1)
	q.irq.Restore(state)
	return true
}

// pop dequeues one message, returning false if the queue is empty.
func (q *queue) pop() (Message, bool) {
	tail := q.tail.Load()
	if tail == q.head.Load() {
		return Message{}, false
	}
	msg := q.slots[tail%q.capacity()]
	q.tail.Store(tail + 1)
	return msg, true
}

// len returns the number of queued messages. Safe from any goroutine.
func (q *queue) len() int {
	tail := q.tail.Load()
	return int(q.head.Load() - tail)
}
