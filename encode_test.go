package valserde

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/types"
)

func encodeTree(t *testing.T, v types.Value) any {
	t.Helper()
	var e gdm.ValueEncoder
	require.NoError(t, Encode(&e, v))
	doc, err := e.Value()
	require.NoError(t, err)
	return doc
}

func TestEncodeRecordOmitsNone(t *testing.T) {
	v := must(optional.NewRecord([]types.FieldValue{
		{Name: "optional", Value: must(optS32.NewNone())},
		{Name: "required", Value: types.S32Value(1)},
	}))
	out, err := ToJSON(v)
	require.NoError(t, err)
	require.Equal(t, `{"required":1}`, string(out))
}

func TestEncodeTree(t *testing.T) {
	row := types.Record(
		types.Field{Name: "id", Type: types.U64()},
		types.Field{Name: "tags", Type: types.List(types.String())},
		types.Field{Name: "shape", Type: shape},
		types.Field{Name: "ratio", Type: types.Float32()},
		types.Field{Name: "initial", Type: types.Char()},
	)
	v := must(row.NewRecord([]types.FieldValue{
		{Name: "id", Value: types.U64Value(math.MaxUint64)},
		{Name: "tags", Value: must(types.List(types.String()).NewList([]types.Value{
			types.StringValue("a"), types.StringValue("b"),
		}))},
		{Name: "shape", Value: must(shape.NewVariant("square", types.S32Value(4)))},
		{Name: "ratio", Value: types.Float32Value(float32(math.Inf(1)))},
		{Name: "initial", Value: types.CharValue('λ')},
	}))

	want := gdm.Map{
		{Key: "id", Value: uint64(math.MaxUint64)},
		{Key: "tags", Value: []any{"a", "b"}},
		{Key: "shape", Value: gdm.Map{{Key: "square", Value: int64(4)}}},
		{Key: "ratio", Value: "Infinity"},
		{Key: "initial", Value: "λ"},
	}
	if diff := cmp.Diff(want, encodeTree(t, v)); diff != "" {
		t.Fatalf("encoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeSums(t *testing.T) {
	res := types.Result(types.NoPayload, types.String())
	cases := []struct {
		name string
		v    types.Value
		want any
	}{
		{"unit case", must(shape.NewVariant("none", types.Value{})), gdm.Map{{Key: "none", Value: nil}}},
		{"ok without payload", must(res.NewOk(types.Value{})), gdm.Map{{Key: "result", Value: nil}}},
		{"err with payload", must(res.NewErr(types.StringValue("boom"))), gdm.Map{{Key: "error", Value: "boom"}}},
		{"outer none", must(optOptS32.NewNone()), nil},
		{"some none", must(optOptS32.NewSome(must(optS32.NewNone()))), gdm.Map{{Key: "value", Value: nil}}},
		{"plain some", must(optS32.NewSome(types.S32Value(-2))), int64(-2)},
		{"enum", must(color.NewEnum("blue")), "blue"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, encodeTree(t, tc.v)); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeFlagsInDeclarationOrder(t *testing.T) {
	v := must(perms.NewFlags([]string{"exec", "read", "exec"}))
	out, err := ToJSON(v)
	require.NoError(t, err)
	require.Equal(t, `["read","exec"]`, string(out))
}

func TestEncodeNaN(t *testing.T) {
	out, err := ToJSON(types.Float32Value(float32(math.NaN())))
	require.NoError(t, err)
	require.Equal(t, `"NaN"`, string(out))
}

func TestEncodeResourceUnsupported(t *testing.T) {
	file := types.Resource("file")
	h := must(file.NewResource(3))

	_, err := ToJSON(h)
	require.ErrorIs(t, err, ErrUnsupportedValue)

	list := must(types.List(file).NewList([]types.Value{h}))
	_, err = ToJSON(list)
	var ee *Error
	require.True(t, errors.As(err, &ee))
	require.Equal(t, "encode", ee.Op)
	require.Equal(t, "[0]", ee.Path)
	require.Equal(t, "resource file", ee.Actual)
}

func TestEncodeMaxDepth(t *testing.T) {
	inner := types.List(types.S32())
	outer := types.List(inner)
	v := must(outer.NewList([]types.Value{
		must(inner.NewList([]types.Value{types.S32Value(1)})),
	}))

	_, err := Options{MaxDepth: 2}.ToJSON(v)
	require.ErrorIs(t, err, ErrDepthExceeded)

	out, err := Options{MaxDepth: 3}.ToJSON(v)
	require.NoError(t, err)
	require.Equal(t, `[[1]]`, string(out))
}

// brokenEncoder fails every string write.
type brokenEncoder struct{ gdm.ValueEncoder }

var errSink = errors.New("sink closed")

func (*brokenEncoder) EncodeString(string) error { return errSink }

func TestEncodeWrapsBackendErrors(t *testing.T) {
	v := must(types.Tuple(types.S32(), types.String()).NewTuple([]types.Value{
		types.S32Value(1), types.StringValue("x"),
	}))
	err := Encode(&brokenEncoder{}, v)
	require.ErrorIs(t, err, ErrFormat)
	require.ErrorIs(t, err, errSink)

	var ee *Error
	require.True(t, errors.As(err, &ee))
	require.Equal(t, "[1]", ee.Path)
}
