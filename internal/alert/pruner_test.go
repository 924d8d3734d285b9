package alert

import (
	"context"
	"testing"
	"time"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

func TestPruner_RemovesAgedAlerts(t *testing.T) {
	h := NewHistory()
	h.Add(newAlert("Pedro", domain.PriorityLow, 2*time.Hour))
	h.Add(newAlert("Maria", domain.PriorityHigh, time.Minute))

	p := NewPruner(h, testLogger(), time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)
	defer p.Stop()

	deadline := time.After(time.Second)
	for h.Size() != 1 {
		select {
		case <-deadline:
			t.Fatalf("pruner did not prune, size = %d", h.Size())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPruner_StopIsIdempotent(t *testing.T) {
	p := NewPruner(NewHistory(), testLogger(), time.Hour, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()

	p.Stop()
	p.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}
