package codec_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	vmsgpack "github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/valserde"
	"github.com/unkn0wn-root/valserde/codec"
	"github.com/unkn0wn-root/valserde/types"
)

var (
	shape = types.Variant(
		types.Case{Name: "circle", Type: types.Float64()},
		types.Case{Name: "none"},
	)
	optOpt  = types.Option(types.Option(types.S32()))
	outcome = types.Result(types.U32(), types.String())

	kitchen = types.Record(
		types.Field{Name: "id", Type: types.U64()},
		types.Field{Name: "delta", Type: types.S64()},
		types.Field{Name: "ratio", Type: types.Float32()},
		types.Field{Name: "score", Type: types.Float64()},
		types.Field{Name: "ok", Type: types.Bool()},
		types.Field{Name: "initial", Type: types.Char()},
		types.Field{Name: "name", Type: types.String()},
		types.Field{Name: "blob", Type: types.List(types.U8())},
		types.Field{Name: "pair", Type: types.Tuple(types.S16(), types.String())},
		types.Field{Name: "shape", Type: shape},
		types.Field{Name: "color", Type: types.Enum("red", "green")},
		types.Field{Name: "perms", Type: types.Flags("read", "write")},
		types.Field{Name: "note", Type: types.Option(types.String())},
		types.Field{Name: "maybe", Type: optOpt},
		types.Field{Name: "outcome", Type: outcome},
	)
)

// must unwraps a constructor result in fixtures, where an error is a bug in
// the test itself.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func kitchenValue(t *testing.T) types.Value {
	t.Helper()
	byteList := types.List(types.U8())
	return must(kitchen.NewRecord([]types.FieldValue{
		{Name: "id", Value: types.U64Value(math.MaxUint64)},
		{Name: "delta", Value: types.S64Value(math.MinInt64)},
		{Name: "ratio", Value: types.Float32Value(float32(math.NaN()))},
		{Name: "score", Value: types.Float64Value(math.Inf(-1))},
		{Name: "ok", Value: types.BoolValue(true)},
		{Name: "initial", Value: types.CharValue('ß')},
		{Name: "name", Value: types.StringValue("kitchen sink")},
		{Name: "blob", Value: must(byteList.NewList([]types.Value{types.U8Value(0), types.U8Value(255)}))},
		{Name: "pair", Value: must(types.Tuple(types.S16(), types.String()).NewTuple([]types.Value{
			types.S16Value(-7), types.StringValue("x"),
		}))},
		{Name: "shape", Value: must(shape.NewVariant("circle", types.Float64Value(0.5)))},
		{Name: "color", Value: must(types.Enum("red", "green").NewEnum("green"))},
		{Name: "perms", Value: must(types.Flags("read", "write").NewFlags([]string{"write"}))},
		{Name: "note", Value: must(types.Option(types.String()).NewNone())},
		{Name: "maybe", Value: must(optOpt.NewSome(must(types.Option(types.S32()).NewNone())))},
		{Name: "outcome", Value: must(outcome.NewErr(types.StringValue("boom")))},
	}))
}

func TestCodecsRoundTrip(t *testing.T) {
	codecs := map[string]codec.Codec[types.Value]{
		"json":     codec.JSON{Type: kitchen},
		"msgpack":  codec.Msgpack{Type: kitchen},
		"cbor":     codec.MustCBOR(kitchen, false),
		"cbor-det": codec.MustCBOR(kitchen, true),
		"protobuf": codec.Protobuf{Type: kitchen},
	}
	v := kitchenValue(t)
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(v)
			require.NoError(t, err)
			got, err := c.Decode(b)
			require.NoError(t, err)
			require.True(t, v.Equal(got), "got %s\nwant %s", got, v)
		})
	}
}

func TestCodecsRejectForeignType(t *testing.T) {
	codecs := map[string]codec.Codec[types.Value]{
		"json":     codec.JSON{Type: kitchen},
		"msgpack":  codec.Msgpack{Type: kitchen},
		"cbor":     codec.MustCBOR(kitchen, true),
		"protobuf": codec.Protobuf{Type: kitchen},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			_, err := c.Encode(types.StringValue("nope"))
			require.ErrorIs(t, err, types.ErrTypeMismatch)
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	c := codec.MustCBOR(kitchen, true)
	v := kitchenValue(t)
	first, err := c.Encode(v)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := c.Encode(v)
		require.NoError(t, err)
		require.True(t, bytes.Equal(first, again))
	}
}

func TestMsgpackBinAsByteList(t *testing.T) {
	raw, err := vmsgpack.Marshal([]byte{1, 2, 3})
	require.NoError(t, err)

	c := codec.Msgpack{Type: types.List(types.U8())}
	v, err := c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "[1, 2, 3]", v.String())
}

func TestMsgpackTrailingBytes(t *testing.T) {
	c := codec.Msgpack{Type: types.S32()}
	b, err := c.Encode(types.S32Value(5))
	require.NoError(t, err)

	_, err = c.Decode(append(b, 0x01))
	require.ErrorIs(t, err, valserde.ErrFormat)
}

func TestNegativeZeroKeepsSign(t *testing.T) {
	pair := types.Tuple(types.Float64(), types.Float32())
	v := must(pair.NewTuple([]types.Value{
		types.Float64Value(math.Copysign(0, -1)),
		types.Float32Value(float32(math.Copysign(0, -1))),
	}))
	codecs := map[string]codec.Codec[types.Value]{
		"json":     codec.JSON{Type: pair},
		"msgpack":  codec.Msgpack{Type: pair},
		"cbor":     codec.MustCBOR(pair, false),
		"protobuf": codec.Protobuf{Type: pair},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(v)
			require.NoError(t, err)
			got, err := c.Decode(b)
			require.NoError(t, err)
			require.True(t, v.Equal(got), "got %s", got)
			require.True(t, math.Signbit(got.Elems()[0].Float64()))
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	codecs := map[string]codec.Codec[types.Value]{
		"json":     codec.JSON{Type: kitchen},
		"msgpack":  codec.Msgpack{Type: kitchen},
		"cbor":     codec.MustCBOR(kitchen, false),
		"protobuf": codec.Protobuf{Type: kitchen},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode([]byte{0xff, 0xfe, 0x00})
			require.Error(t, err)
		})
	}
}

func TestCodecOptionsApply(t *testing.T) {
	deep := types.List(types.List(types.S32()))
	v, err := valserde.FromJSON(deep, []byte(`[[1]]`))
	require.NoError(t, err)

	c := codec.Msgpack{Type: deep, Options: valserde.Options{MaxDepth: 2}}
	_, err = c.Encode(v)
	require.ErrorIs(t, err, valserde.ErrDepthExceeded)
}

func TestLimitCodec(t *testing.T) {
	inner := codec.JSON{Type: types.String()}
	c := codec.LimitCodec[types.Value]{Inner: inner, MaxDecode: 8}

	b, err := c.Encode(types.StringValue("a long string"))
	require.NoError(t, err)

	_, err = c.Decode(b)
	require.ErrorIs(t, err, codec.ErrTooLarge)

	v, err := c.Decode([]byte(`"ok"`))
	require.NoError(t, err)
	require.Equal(t, "ok", v.Str())

	unlimited := codec.LimitCodec[types.Value]{Inner: inner}
	_, err = unlimited.Decode(b)
	require.NoError(t, err)
}
