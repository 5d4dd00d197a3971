package common

import (
	"sync"
	"time"
)

// QueueProcessor handles a batch of items taken off the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler collects items and hands them to the processor in chunks
// from a background goroutine, decoupling producers from slow sinks like
// the message broker.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
}

func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int) *QueueHandler[V] {
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: chunkSize,
	}
	go q.processQueue()
	return q
}

func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, item...)
}

// Flush synchronously drains everything still queued.
func (h *QueueHandler[V]) Flush() {
	for {
		items := h.take()
		if len(items) == 0 {
			return
		}
		h.processor(items)
	}
}

func (h *QueueHandler[V]) take() []V {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return nil
	}
	items := h.queue[:min(h.chunkSize, len(h.queue))]
	h.queue = h.queue[len(items):]
	return items
}

func (h *QueueHandler[V]) processQueue() {
	for {
		items := h.take()
		if items == nil {
			time.Sleep(time.Second)
			continue
		}
		h.processor(items)
	}
}
