package notification

import (
	"errors"
	"fmt"
	"sync"

	"myregistry/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrQueueFull is returned by Submit when the queue holds capacity tasks.
var ErrQueueFull = errors.New("task queue is full")

// ErrQueueClosed is returned by Submit after Close.
var ErrQueueClosed = errors.New("task queue is closed")

// TaskQueue runs tasks one at a time, in submission order, on a single goroutine. One queue
// serves one channel (a replication stream, an interest subscription) so its tasks never
// interleave. A panicking task is logged and the queue keeps running.
type TaskQueue struct {
	name   string
	logger log.Logger
	tasks  chan func()
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewTaskQueue starts a queue holding up to capacity pending tasks. Panics on an empty name,
// non-positive capacity or nil logger.
func NewTaskQueue(name string, capacity int, logger log.Logger) *TaskQueue {
	if capacity <= 0 {
		panic("notification.queue.go: capacity must be positive")
	}
	q := &TaskQueue{
		name:   helpers.StrPanic(name, "notification.queue.go: name is required"),
		logger: log.With(helpers.NilPanic(logger, "notification.queue.go: logger is required"), "component", "TaskQueue", "queue", name),
		tasks:  make(chan func(), capacity),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

// Submit enqueues task without blocking.
func (q *TaskQueue) Submit(task func()) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return fmt.Errorf("%s: %w", q.name, ErrQueueFull)
	}
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Close stops accepting tasks and waits until every queued task has run. Safe to call more than
// once.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()
	<-q.done
}

func (q *TaskQueue) run() {
	defer close(q.done)
	for task := range q.tasks {
		q.execute(task)
	}
	level.Debug(q.logger).Log("msg", "task queue drained")
}

func (q *TaskQueue) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(q.logger).Log("msg", "task panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}
