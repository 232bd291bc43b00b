package gdm_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/gdm/internal/gdmtest"
)

func TestValueEncoderBuildsTree(t *testing.T) {
	doc := gdm.Map{
		{Key: "z", Value: int64(-1)},
		{Key: "a", Value: []any{uint64(1), "two", nil, true}},
		{Key: "m", Value: gdm.Map{{Key: "bin", Value: []byte{0x01}}}},
	}
	var e gdm.ValueEncoder
	require.NoError(t, gdmtest.Write(&e, doc))
	got, err := e.Value()
	require.NoError(t, err)
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	// Map keeps insertion order when read back.
	back, err := gdmtest.Walk(gdm.NewValueDecoder(got))
	require.NoError(t, err)
	if diff := cmp.Diff(doc, back); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValueEncoderMisuse(t *testing.T) {
	var e gdm.ValueEncoder
	_, err := e.Value()
	require.Error(t, err, "empty document")

	require.NoError(t, e.BeginMap(1))
	require.Error(t, e.EncodeString("value without key"))
	require.Error(t, e.EndSeq())

	var done gdm.ValueEncoder
	require.NoError(t, done.EncodeNull())
	require.Error(t, done.EncodeNull(), "second root")
}

func TestValueDecoderSortsGoMaps(t *testing.T) {
	d := gdm.NewValueDecoder(map[string]any{"b": 2, "a": 1, "c": 3})
	m, err := d.DecodeMap()
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	var keys []string
	for {
		kd, ok, err := m.NextKey()
		require.NoError(t, err)
		if !ok {
			break
		}
		k, err := kd.DecodeString()
		require.NoError(t, err)
		keys = append(keys, k)
	}
	require.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestValueDecoderKinds(t *testing.T) {
	cases := []struct {
		v    any
		want gdm.Kind
	}{
		{nil, gdm.KindNull},
		{false, gdm.KindBool},
		{int8(-1), gdm.KindInt},
		{uint16(1), gdm.KindUint},
		{float32(1), gdm.KindFloat},
		{"s", gdm.KindString},
		{[]byte("b"), gdm.KindBytes},
		{[]any{}, gdm.KindSeq},
		{gdm.Map{}, gdm.KindMap},
	}
	for _, tc := range cases {
		k, err := gdm.NewValueDecoder(tc.v).Kind()
		require.NoError(t, err)
		require.Equal(t, tc.want, k, "%T", tc.v)
	}

	_, err := gdm.NewValueDecoder(struct{}{}).Kind()
	require.Error(t, err)
}

func TestKindError(t *testing.T) {
	_, err := gdm.NewValueDecoder("x").DecodeInt()
	var ke *gdm.KindError
	require.ErrorAs(t, err, &ke)
	require.Equal(t, gdm.KindString, ke.Got)
	require.Equal(t, gdm.KindInt, ke.Want)
	require.EqualError(t, err, "gdm: cannot read string as integer")
}
