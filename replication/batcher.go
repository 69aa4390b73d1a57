package replication

import (
	"sync"
	"time"
)

// batcher is the accept queue of one peer. A task replaces a pending task with the same key
// and keeps its place in line. A batch is ready when the queue holds maxBatch tasks or its
// oldest task waited maxDelay. Expired tasks are dropped when a batch is taken.
type batcher struct {
	maxBuffer int
	maxBatch  int
	maxDelay  time.Duration

	mu      sync.Mutex
	pending map[string]*task
	order   []string
}

func newBatcher(maxBuffer, maxBatch int, maxDelay time.Duration) *batcher {
	return &batcher{
		maxBuffer: maxBuffer,
		maxBatch:  maxBatch,
		maxDelay:  maxDelay,
		pending:   make(map[string]*task),
	}
}

// offer queues t. Returns the number of tasks dropped to make room (0 or 1).
func (b *batcher) offer(t *task) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := t.key()
	if _, ok := b.pending[key]; ok {
		b.pending[key] = t
		return 0
	}
	dropped := 0
	if len(b.order) >= b.maxBuffer {
		oldest := b.order[0]
		b.order = b.order[1:]
		delete(b.pending, oldest)
		dropped = 1
	}
	b.pending[key] = t
	b.order = append(b.order, key)
	return dropped
}

// requeue puts tasks of a failed batch back at the head of the line. A task superseded while
// its batch was in flight is not put back.
func (b *batcher) requeue(tasks []*task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	head := make([]string, 0, len(tasks))
	for _, t := range tasks {
		key := t.key()
		if _, ok := b.pending[key]; ok {
			continue
		}
		b.pending[key] = t
		head = append(head, key)
	}
	b.order = append(head, b.order...)
	for len(b.order) > b.maxBuffer {
		last := b.order[len(b.order)-1]
		b.order = b.order[:len(b.order)-1]
		delete(b.pending, last)
	}
}

// ready reports whether a batch should be sent at now.
func (b *batcher) ready(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readyLocked(now)
}

func (b *batcher) readyLocked(now time.Time) bool {
	if len(b.order) == 0 {
		return false
	}
	if len(b.order) >= b.maxBatch {
		return true
	}
	return now.Sub(b.pending[b.order[0]].submitted) >= b.maxDelay
}

// take removes the next batch when one is ready. Returns the batch and the number of expired
// tasks dropped on the way.
func (b *batcher) take(now time.Time) ([]*task, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.readyLocked(now) {
		return nil, 0
	}
	var (
		batch   []*task
		expired int
		i       int
	)
	for ; i < len(b.order) && len(batch) < b.maxBatch; i++ {
		key := b.order[i]
		t := b.pending[key]
		delete(b.pending, key)
		if t.expired(now) {
			expired++
			continue
		}
		batch = append(batch, t)
	}
	b.order = b.order[i:]
	return batch, expired
}

// size returns the number of pending tasks.
func (b *batcher) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}
