package codec

import (
	"bytes"

	"github.com/unkn0wn-root/valserde"
	"github.com/unkn0wn-root/valserde/gdm/msgpack"
	"github.com/unkn0wn-root/valserde/types"
)

// Msgpack is a Codec writing values as MessagePack. It is more compact than
// JSON and keeps list<u8> readable as bin on input.
type Msgpack struct {
	Type    types.Type
	Options valserde.Options
}

var _ Codec[types.Value] = Msgpack{}

func (c Msgpack) Encode(v types.Value) ([]byte, error) {
	if err := checkType(c.Type, v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.Options.Encode(msgpack.NewEncoder(&buf), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Msgpack) Decode(b []byte) (types.Value, error) {
	r := bytes.NewReader(b)
	v, err := c.Options.Decode(c.Type, msgpack.NewDecoder(r))
	if err != nil {
		return types.Value{}, err
	}
	if r.Len() > 0 {
		return types.Value{}, &valserde.Error{Op: "decode", Kind: valserde.ErrFormat, Actual: "trailing bytes after value"}
	}
	return v, nil
}
