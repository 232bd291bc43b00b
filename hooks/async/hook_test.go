package asynchook

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/valserde/store"
)

type recordingHooks struct {
	store.NopHooks
	mu      sync.Mutex
	reasons []string
	block   chan struct{}
}

func (r *recordingHooks) SelfHeal(_, reason string) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.reasons = append(r.reasons, reason)
	r.mu.Unlock()
}

func TestDeliversAndDrainsOnClose(t *testing.T) {
	rec := &recordingHooks{}
	h := New(rec, 2, 16)
	for i := 0; i < 10; i++ {
		h.SelfHeal("k", "corrupt")
	}
	h.Close()
	require.Len(t, rec.reasons, 10)
	require.Zero(t, h.Dropped())
}

func TestDropsWhenFullAndAfterClose(t *testing.T) {
	rec := &recordingHooks{block: make(chan struct{})}
	h := New(rec, 1, 1)

	// One event occupies the worker, one fills the queue, the rest drop.
	for i := 0; i < 5; i++ {
		h.SelfHeal("k", "gen_mismatch")
	}
	close(rec.block)
	h.Close()
	h.SelfHeal("k", "late")

	require.GreaterOrEqual(t, h.Dropped(), uint64(3))
	require.NotContains(t, rec.reasons, "late")
}
