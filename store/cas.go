package store

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/unkn0wn-root/valserde/codec"
	"github.com/unkn0wn-root/valserde/genstore"
	"github.com/unkn0wn-root/valserde/internal/wire"
	"github.com/unkn0wn-root/valserde/provider"
	"github.com/unkn0wn-root/valserde/types"
)

const (
	defaultTTL          = 10 * time.Minute
	defaultGenRetention = 30 * 24 * time.Hour
	defaultSweep        = time.Hour
)

// Self-heal reasons reported through Hooks.SelfHeal.
const (
	healCorrupt      = "corrupt"
	healGenMismatch  = "gen_mismatch"
	healTypeMismatch = "type_mismatch"
	healValueDecode  = "value_decode"
)

type store struct {
	ns          string
	typ         types.Type
	fingerprint uint64
	provider    provider.Provider
	codec       codec.Codec[types.Value]
	log         Logger
	hooks       Hooks
	enabled     bool

	defaultTTL     time.Duration
	computeSetCost SetCostFunc
	gen            genstore.GenStore
}

// Fingerprint identifies a type in stored frames: xxhash of its canonical
// encoding.
func Fingerprint(t types.Type) uint64 { return xxhash.Sum64(t.AppendCanonical(nil)) }

func newStore(opts Options) (*store, error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	if opts.Namespace == "" {
		return nil, ErrNoNamespace
	}
	if !opts.Type.IsValid() {
		return nil, ErrNoType
	}

	s := &store{
		ns:          opts.Namespace,
		typ:         opts.Type,
		fingerprint: Fingerprint(opts.Type),
		provider:    opts.Provider,
		enabled:     !opts.Disabled,
	}

	// defaults
	s.codec = opts.Codec
	if s.codec == nil {
		s.codec = codec.JSON{Type: opts.Type}
	}
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.defaultTTL = coalesce(opts.DefaultTTL, defaultTTL)
	sweep := coalesce(opts.CleanupInterval, defaultSweep)
	retention := coalesce(opts.GenRetention, defaultGenRetention)

	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(string, []byte) int64 { return 1 }
	}

	if opts.GenStore != nil {
		s.gen = opts.GenStore
	} else {
		// default to in-process generations with periodic cleanup
		s.gen = genstore.NewLocalGenStore(sweep, retention)
	}

	return s, nil
}

func (s *store) Enabled() bool { return s.enabled }

func (s *store) Close(ctx context.Context) error {
	// Close gen store first (best effort)
	if err := s.gen.Close(ctx); err != nil {
		s.log.Warn("gen store close error", Fields{"ns": s.ns, "err": err})
	}
	return s.provider.Close(ctx)
}

func (s *store) Get(ctx context.Context, key string) (types.Value, bool, error) {
	if !s.enabled {
		return types.Value{}, false, nil
	}
	k := s.storageKey(key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return types.Value{}, false, err
	}
	e, err := wire.Decode(raw)
	if err != nil {
		s.heal(ctx, k, healCorrupt)
		return types.Value{}, false, nil
	}
	if e.Type != s.fingerprint {
		s.heal(ctx, k, healTypeMismatch)
		return types.Value{}, false, nil
	}
	if e.Gen != s.snapshotGen(ctx, k) {
		s.heal(ctx, k, healGenMismatch)
		return types.Value{}, false, nil
	}
	v, err := s.codec.Decode(e.Payload)
	if err != nil {
		s.log.Debug("stored value failed to decode", Fields{"key": key, "err": err})
		s.heal(ctx, k, healValueDecode)
		return types.Value{}, false, nil
	}
	return v, true, nil
}

// heal drops an entry that can no longer be served.
func (s *store) heal(ctx context.Context, storageKey, reason string) {
	_ = s.provider.Del(ctx, storageKey)
	s.hooks.SelfHeal(storageKey, reason)
}

func (s *store) SetWithGen(ctx context.Context, key string, value types.Value, observedGen uint64, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if !s.typ.Equal(value.Type()) {
		return errors.Wrapf(types.ErrTypeMismatch, "store %s holds %s, got %s", s.ns, s.typ, value.Type())
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	k := s.storageKey(key)
	if s.snapshotGen(ctx, k) != observedGen {
		// generation moved; skip stale write
		s.log.Debug("SetWithGen skipped (gen mismatch)", Fields{"key": key, "obs": observedGen})
		return nil
	}
	payload, err := s.codec.Encode(value)
	if err != nil {
		s.hooks.EncodeError(k, err)
		return err
	}
	raw := wire.Encode(wire.Entry{Gen: observedGen, Type: s.fingerprint, Payload: payload})
	ok, err := s.provider.Set(ctx, k, raw, s.computeSetCost(k, raw), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.ProviderSetRejected(k)
		s.log.Debug("SetWithGen rejected by provider (pressure)", Fields{"key": key})
	}
	return nil
}

// Invalidate bumps the key's generation and deletes the stored entry. A
// failed bump is returned since later writes could then pass the CAS check
// with an old snapshot. A failed delete alone is harmless: the stale entry
// is dropped on its next read.
func (s *store) Invalidate(ctx context.Context, key string) error {
	if !s.enabled {
		return nil
	}
	k := s.storageKey(key)
	newGen, bumpErr := s.gen.Bump(ctx, k)
	if bumpErr != nil {
		s.hooks.GenBumpError(k, bumpErr)
	}
	delErr := s.provider.Del(ctx, k)

	switch {
	case bumpErr != nil && delErr != nil:
		s.hooks.InvalidateOutage(key, bumpErr, delErr)
		s.log.Error("invalidate failed", Fields{"key": key, "bump_err": bumpErr, "del_err": delErr})
		return &InvalidateError{Key: key, BumpErr: bumpErr, DelErr: delErr}
	case bumpErr != nil:
		s.log.Error("gen bump error", Fields{"key": key, "err": bumpErr})
		return &InvalidateError{Key: key, BumpErr: bumpErr}
	case delErr != nil:
		s.log.Warn("invalidate delete failed; entry will self-heal", Fields{"key": key, "err": delErr})
	}
	s.log.Debug("invalidated key (bumped gen + cleared entry)", Fields{"key": key, "newGen": newGen})
	return nil
}

func (s *store) SnapshotGen(key string) uint64 {
	return s.snapshotGen(context.Background(), s.storageKey(key))
}

func (s *store) SnapshotGens(keys []string) map[string]uint64 {
	storage := make([]string, len(keys))
	for i, k := range keys {
		storage[i] = s.storageKey(k)
	}
	out := make(map[string]uint64, len(keys))
	m, err := s.gen.SnapshotMany(context.Background(), storage)
	if err != nil {
		s.hooks.GenSnapshotError(len(keys), err)
		// conservative fallback: one by one
		for _, k := range keys {
			out[k] = s.SnapshotGen(k)
		}
		return out
	}
	for i, k := range keys {
		out[k] = m[storage[i]]
	}
	return out
}

func (s *store) snapshotGen(ctx context.Context, storageKey string) uint64 {
	g, err := s.gen.Snapshot(ctx, storageKey)
	if err != nil {
		// Conservative: treat as 0; entries written under a later gen self-heal on read
		s.hooks.GenSnapshotError(1, err)
		s.log.Warn("gen snapshot error", Fields{"key": storageKey, "err": err})
		return 0
	}
	return g
}

func (s *store) storageKey(userKey string) string {
	// isolate by namespace
	return "value:" + s.ns + ":" + userKey
}
