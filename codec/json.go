package codec

import (
	"github.com/unkn0wn-root/valserde"
	"github.com/unkn0wn-root/valserde/types"
)

// JSON is a Codec writing values as compact JSON.
type JSON struct {
	Type    types.Type
	Options valserde.Options
}

var _ Codec[types.Value] = JSON{}

func (c JSON) Encode(v types.Value) ([]byte, error) {
	if err := checkType(c.Type, v); err != nil {
		return nil, err
	}
	return c.Options.ToJSON(v)
}

func (c JSON) Decode(b []byte) (types.Value, error) {
	return c.Options.FromJSON(c.Type, b)
}
