package codec

import (
	"github.com/unkn0wn-root/valserde"
	"github.com/unkn0wn-root/valserde/gdm/cbor"
	"github.com/unkn0wn-root/valserde/types"
)

// CBOR is a Codec writing values as CBOR.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when you need byte-for-byte stable outputs (e.g., hashing/content addressing).
type CBOR struct {
	typ    types.Type
	format cbor.Format
	opts   valserde.Options
}

var _ Codec[types.Value] = CBOR{}

// NewCBOR constructs a CBOR codec for values of type t.
func NewCBOR(t types.Type, deterministic bool, opts ...valserde.Options) (CBOR, error) {
	f, err := cbor.New(deterministic)
	if err != nil {
		return CBOR{}, err
	}
	c := CBOR{typ: t, format: f}
	if len(opts) > 0 {
		c.opts = opts[0]
	}
	return c, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Should not use for prod just handy for package-level variables in tests/examples.
func MustCBOR(t types.Type, deterministic bool) CBOR {
	c, err := NewCBOR(t, deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR) Encode(v types.Value) ([]byte, error) {
	if err := checkType(c.typ, v); err != nil {
		return nil, err
	}
	e := c.format.NewEncoder()
	if err := c.opts.Encode(e, v); err != nil {
		return nil, err
	}
	return e.Bytes()
}

func (c CBOR) Decode(b []byte) (types.Value, error) {
	d, err := c.format.NewDecoder(b)
	if err != nil {
		return types.Value{}, &valserde.Error{Op: "decode", Kind: valserde.ErrFormat, Err: err}
	}
	return c.opts.Decode(c.typ, d)
}
