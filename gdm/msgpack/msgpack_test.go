package msgpack

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/gdm/internal/gdmtest"
)

func TestStreamRoundTrip(t *testing.T) {
	doc := gdm.Map{
		{Key: "neg", Value: int64(-300)},
		{Key: "big", Value: uint64(1 << 63)},
		{Key: "f", Value: 2.25},
		{Key: "bin", Value: []byte{0, 1, 2}},
		{Key: "list", Value: []any{"a", nil, false, gdm.Map{}}},
	}
	var buf bytes.Buffer
	require.NoError(t, gdmtest.Write(NewEncoder(&buf), doc))

	got, err := gdmtest.Walk(NewDecoder(&buf))
	require.NoError(t, err)
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	require.Zero(t, buf.Len())
}

func TestCodeKind(t *testing.T) {
	cases := map[byte]gdm.Kind{
		0x05:             gdm.KindUint,
		0xff:             gdm.KindInt, // negative fixint -1
		msgpcode.Nil:     gdm.KindNull,
		msgpcode.True:    gdm.KindBool,
		msgpcode.Double:  gdm.KindFloat,
		msgpcode.Uint64:  gdm.KindUint,
		msgpcode.Int8:    gdm.KindInt,
		msgpcode.Str8:    gdm.KindString,
		msgpcode.Bin8:    gdm.KindBytes,
		msgpcode.Array16: gdm.KindSeq,
		msgpcode.Map32:   gdm.KindMap,
	}
	for c, want := range cases {
		got, err := codeKind(c)
		require.NoError(t, err)
		require.Equal(t, want, got, "code 0x%02x", c)
	}

	_, err := codeKind(msgpcode.Ext8)
	require.Error(t, err)
}

func TestSkipConsumesNestedValue(t *testing.T) {
	var buf bytes.Buffer
	doc := []any{gdm.Map{{Key: "x", Value: []any{int64(-1), "y"}}}, "after"}
	require.NoError(t, gdmtest.Write(NewEncoder(&buf), doc))

	d := NewDecoder(&buf)
	s, err := d.DecodeSeq()
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	first, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, first.Skip())

	second, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	str, err := second.DecodeString()
	require.NoError(t, err)
	require.Equal(t, "after", str)

	_, ok, err = s.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNilBytesWrittenAsEmptyBin(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).EncodeBytes(nil))

	d := NewDecoder(&buf)
	k, err := d.Kind()
	require.NoError(t, err)
	require.Equal(t, gdm.KindBytes, k)
}
