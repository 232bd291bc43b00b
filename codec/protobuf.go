package codec

import (
	"github.com/cockroachdb/errors"
	"github.com/unkn0wn-root/valserde"
	pbgdm "github.com/unkn0wn-root/valserde/gdm/structpb"
	"github.com/unkn0wn-root/valserde/types"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Protobuf is a Codec writing values as a serialized google.protobuf.Value.
// Integers beyond ±2^53 travel as decimal strings.
type Protobuf struct {
	Type    types.Type
	Options valserde.Options
}

var _ Codec[types.Value] = Protobuf{}

func (c Protobuf) Encode(v types.Value) ([]byte, error) {
	if err := checkType(c.Type, v); err != nil {
		return nil, err
	}
	e := pbgdm.NewEncoder()
	if err := c.Options.Encode(e, v); err != nil {
		return nil, err
	}
	m, err := e.Value()
	if err != nil {
		return nil, err
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(m)
	return b, errors.Wrap(err, "codec: protobuf marshal")
}

func (c Protobuf) Decode(b []byte) (types.Value, error) {
	m := &structpb.Value{}
	if err := proto.Unmarshal(b, m); err != nil {
		return types.Value{}, &valserde.Error{Op: "decode", Kind: valserde.ErrFormat, Err: err}
	}
	return c.Options.Decode(c.Type, pbgdm.NewDecoder(m))
}
