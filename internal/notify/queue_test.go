package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

func notification(p domain.Priority, subject string) *domain.Notification {
	return &domain.Notification{
		ID:       uuid.New(),
		Subject:  subject,
		Priority: p,
		Channel:  domain.ChannelWebhook,
		State:    domain.NotificationPending,
	}
}

func TestQueue_PriorityThenArrivalOrder(t *testing.T) {
	q := NewQueue(10)

	require.NoError(t, q.Enqueue(notification(domain.PriorityLow, "baja")))
	require.NoError(t, q.Enqueue(notification(domain.PriorityHigh, "alta-1")))
	require.NoError(t, q.Enqueue(notification(domain.PriorityMedium, "media")))
	require.NoError(t, q.Enqueue(notification(domain.PriorityHigh, "alta-2")))

	var got []string
	for i := 0; i < 4; i++ {
		n, ok := q.Dequeue(10 * time.Millisecond)
		require.True(t, ok)
		got = append(got, n.Subject)
	}

	assert.Equal(t, []string{"alta-1", "alta-2", "media", "baja"}, got)
}

func TestQueue_FullRejectsWithoutBlocking(t *testing.T) {
	q := NewQueue(2)

	require.NoError(t, q.Enqueue(notification(domain.PriorityLow, "a")))
	require.NoError(t, q.Enqueue(notification(domain.PriorityLow, "b")))

	start := time.Now()
	err := q.Enqueue(notification(domain.PriorityHigh, "c"))
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, domain.ErrQueueFull)
	assert.Equal(t, 2, q.Len(), "rejected enqueue must not change the size")
	assert.Less(t, elapsed, 100*time.Millisecond, "enqueue must not block")

	stats := q.Stats()
	assert.Equal(t, uint64(1), stats.Rejected)
	assert.Equal(t, uint64(2), stats.Enqueued)
}

func TestQueue_DequeueTimesOutWhenEmpty(t *testing.T) {
	q := NewQueue(5)

	start := time.Now()
	n, ok := q.Dequeue(50 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Nil(t, n)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestQueue_DequeueWakesOnEnqueue(t *testing.T) {
	q := NewQueue(5)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = q.Enqueue(notification(domain.PriorityHigh, "late"))
	}()

	n, ok := q.Dequeue(time.Second)
	require.True(t, ok)
	assert.Equal(t, "late", n.Subject)
}

func TestQueue_CapacityFreedAfterDequeue(t *testing.T) {
	q := NewQueue(1)

	require.NoError(t, q.Enqueue(notification(domain.PriorityLow, "a")))
	assert.ErrorIs(t, q.Enqueue(notification(domain.PriorityLow, "b")), domain.ErrQueueFull)

	_, ok := q.Dequeue(10 * time.Millisecond)
	require.True(t, ok)

	assert.NoError(t, q.Enqueue(notification(domain.PriorityLow, "c")))
}

func TestQueue_ArrivalSequenceIsMonotonic(t *testing.T) {
	q := NewQueue(100)

	// Same priority, enqueued in one tight loop: wall clocks would
	// collide here, the sequence number must not.
	for i := 0; i < 50; i++ {
		require.NoError(t, q.Enqueue(notification(domain.PriorityMedium, string(rune('A'+i)))))
	}

	prev := ""
	for i := 0; i < 50; i++ {
		n, ok := q.Dequeue(10 * time.Millisecond)
		require.True(t, ok)
		if prev != "" {
			assert.Greater(t, n.Subject, prev, "FIFO within one tier")
		}
		prev = n.Subject
	}
}
