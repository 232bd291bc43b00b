// Package codec turns Dynamic Values of one type into bytes and back, for
// storage or transport. Each codec is bound to a type, which drives decoding
// and is checked on encode.
package codec

import (
	"github.com/cockroachdb/errors"
	"github.com/unkn0wn-root/valserde/types"
)

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// checkType rejects values whose type differs from the codec's.
func checkType(t types.Type, v types.Value) error {
	if !t.Equal(v.Type()) {
		return errors.Wrapf(types.ErrTypeMismatch, "codec: value of type %s, codec is bound to %s", v.Type(), t)
	}
	return nil
}
