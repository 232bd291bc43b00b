// Package store keeps Dynamic Values of one type in a provider-agnostic byte
// store, with compare-and-swap (CAS) safety via per-key generations. Reads
// never return values written before the last Invalidate of their key.
//
// Components:
//   - Provider: byte store with TTL (e.g. Ristretto, BigCache, Redis).
//   - Codec: turns values into bytes (JSON by default; see package codec).
//   - GenStore: generation counter per logical key. Local (in-process) by default,
//     optional Redis implementation for multi-replica / restart persistence.
//
// Every entry is framed with its generation and a fingerprint of the value
// type. Entries that fail to parse, carry an old generation or were written
// for another type are deleted on read and reported as misses.
//
// Keys:
//
//	value:<ns>:<key>
//
// CAS pattern:
//
//	obs := s.SnapshotGen(k) // before the source read
//	v   := readFromSource(k)
//	_   = s.SetWithGen(ctx, k, v, obs, 0) // write iff current gen == obs
package store
