package store

import (
	"context"
	"time"

	"github.com/unkn0wn-root/valserde/codec"
	"github.com/unkn0wn-root/valserde/genstore"
	"github.com/unkn0wn-root/valserde/provider"
	"github.com/unkn0wn-root/valserde/types"
)

// SetCostFunc computes the cost passed to Provider.Set for a framed entry.
type SetCostFunc func(key string, raw []byte) int64

// Store is the provider-agnostic value store with CAS safety via per-key
// generations. All values share the type given in Options.
type Store interface {
	Enabled() bool
	Close(context.Context) error

	Get(ctx context.Context, key string) (v types.Value, ok bool, err error)
	SetWithGen(ctx context.Context, key string, value types.Value, observedGen uint64, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error

	// Generation snapshots (for CAS)
	SnapshotGen(key string) uint64
	SnapshotGens(keys []string) map[string]uint64
}

// Options tune the behavior of the store.
// Namespace, Type and Provider are required; others have sensible defaults.
type Options struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "user", "profile", "order"
	Type      types.Type
	Provider  provider.Provider

	Codec           codec.Codec[types.Value] // nil => codec.JSON for Type
	Logger          Logger                   // if nil, NopLogger is used
	Hooks           Hooks                    // if nil, NopHooks is used
	DefaultTTL      time.Duration            // 0 => 10m
	CleanupInterval time.Duration            // local gens sweep; 0 => 1h
	GenRetention    time.Duration            // local gens; 0 => 30d
	Disabled        bool                     // default false (enabled)
	ComputeSetCost  SetCostFunc              // default 1
	GenStore        genstore.GenStore        // nil => LocalGenStore (in-process)
}

func New(opts Options) (Store, error) {
	return newStore(opts)
}
