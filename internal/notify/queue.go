package notify

import (
	"container/heap"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

// item is the total-ordering wrapper around one pending notification.
// The arrival sequence is a monotonic counter, not a wall-clock value;
// clock readings can collide and cannot carry a total order.
type item struct {
	notification *domain.Notification
	rank         int
	seq          uint64
	index        int
}

type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].rank != h[j].rank {
		return h[i].rank < h[j].rank
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap) Push(x any) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// QueueStats is a point-in-time snapshot of the queue counters.
type QueueStats struct {
	Size     int    `json:"size"`
	MaxSize  int    `json:"max_size"`
	Enqueued uint64 `json:"enqueued"`
	Rejected uint64 `json:"rejected"`
	Dequeued uint64 `json:"dequeued"`
}

// Queue is the bounded priority queue feeding the dispatcher. Ordering
// is (priority rank, arrival sequence) ascending, so ALTA drains before
// MEDIA before BAJA, FIFO within one tier. One coarse mutex guards all
// operations; Enqueue never blocks.
type Queue struct {
	mu       sync.Mutex
	items    itemHeap
	maxSize  int
	seq      uint64
	enqueued uint64
	rejected uint64
	dequeued uint64
	signal   chan struct{}
}

func NewQueue(maxSize int) *Queue {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Queue{
		maxSize: maxSize,
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue adds a notification or fails immediately with ErrQueueFull
// when the queue is at capacity. It never blocks and never drops
// without signaling.
func (q *Queue) Enqueue(n *domain.Notification) error {
	q.mu.Lock()
	if len(q.items) >= q.maxSize {
		q.rejected++
		q.mu.Unlock()
		return domain.ErrQueueFull
	}

	q.seq++
	heap.Push(&q.items, &item{
		notification: n,
		rank:         n.Priority.Rank(),
		seq:          q.seq,
	})
	q.enqueued++
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue pops the most urgent notification, blocking up to timeout
// when the queue is empty. The second return is false on timeout.
func (q *Queue) Dequeue(timeout time.Duration) (*domain.Notification, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			it := heap.Pop(&q.items).(*item)
			q.dequeued++
			q.mu.Unlock()
			return it.notification, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-timer.C:
			return nil, false
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Size:     len(q.items),
		MaxSize:  q.maxSize,
		Enqueued: q.enqueued,
		Rejected: q.rejected,
		Dequeued: q.dequeued,
	}
}
