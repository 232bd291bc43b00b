package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []Entry{
		{Gen: 0, Type: 0, Payload: nil},
		{Gen: 42, Type: 0xfeedface, Payload: []byte("hello")},
		{Gen: math.MaxUint64, Type: math.MaxUint64, Payload: []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		got, err := Decode(Encode(tc))
		require.NoError(t, err)
		require.Equal(t, tc.Gen, got.Gen)
		require.Equal(t, tc.Type, got.Type)
		require.True(t, bytes.Equal(tc.Payload, got.Payload), "payload %x, want %x", got.Payload, tc.Payload)
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := append(Encode(Entry{Gen: 7, Payload: []byte("x")}), 0xDE, 0xAD)
	_, err := Decode(enc)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestCorruptHeadersAndLengths(t *testing.T) {
	enc := Encode(Entry{Gen: 1, Type: 9, Payload: []byte("abc")})

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), enc...))
	}
	cases := map[string][]byte{
		"empty":     nil,
		"short":     enc[:headerLen-1],
		"bad magic": mutate(func(b []byte) []byte { b[0] = 'X'; return b }),
		"version":   mutate(func(b []byte) []byte { b[4] = version + 1; return b }),
		"kind":      mutate(func(b []byte) []byte { b[5] = kindValue + 1; return b }),
		"truncated": enc[:len(enc)-1],
		"vlen too big": mutate(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[22:26], math.MaxUint32)
			return b
		}),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(b)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestPayloadAliasesFrame(t *testing.T) {
	enc := Encode(Entry{Payload: []byte("abc")})
	e, err := Decode(enc)
	require.NoError(t, err)
	enc[headerLen] = 'z'
	require.Equal(t, "zbc", string(e.Payload))
}
