package plug

import (
	"sync"
)

// Queue runs posted tasks one at a time, in submission order, on a single
// goroutine.
type Queue struct {
	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	closed  bool
	stopped chan struct{}
}

// NewQueue starts a queue.
func NewQueue() *Queue {
	q := &Queue{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go q.loop()
	return q
}

// Post schedules task and returns without waiting for it. It reports false
// once the queue is closed.
func (q *Queue) Post(task func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Close stops accepting tasks, runs the ones already posted and waits for
// the queue goroutine to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
	q.mu.Unlock()
	<-q.stopped
}

// Flush blocks until every task posted before the call has run.
func (q *Queue) Flush() {
	done := make(chan struct{})
	if !q.Post(func() { close(done) }) {
		return
	}
	<-done
}

func (q *Queue) loop() {
	defer close(q.stopped)
	for {
		q.mu.Lock()
		batch := q.tasks
		q.tasks = nil
		closed := q.closed
		q.mu.Unlock()

		for _, task := range batch {
			task()
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}
