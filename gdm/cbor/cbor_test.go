package cbor

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/gdm/internal/gdmtest"
)

func TestRoundTripSortsKeys(t *testing.T) {
	for _, det := range []bool{false, true} {
		f := Must(det)
		doc := gdm.Map{
			{Key: "z", Value: []any{int64(-5), uint64(5), 1.5, nil}},
			{Key: "a", Value: []byte{9}},
			{Key: "m", Value: gdm.Map{{Key: "s", Value: "x"}}},
		}
		e := f.NewEncoder()
		require.NoError(t, gdmtest.Write(e, doc))
		b, err := e.Bytes()
		require.NoError(t, err)

		d, err := f.NewDecoder(b)
		require.NoError(t, err)
		got, err := gdmtest.Walk(d)
		require.NoError(t, err)

		want := gdm.Map{
			{Key: "a", Value: []byte{9}},
			{Key: "m", Value: gdm.Map{{Key: "s", Value: "x"}}},
			{Key: "z", Value: []any{int64(-5), uint64(5), 1.5, nil}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("deterministic=%v (-want +got):\n%s", det, diff)
		}
	}
}

func TestDecoderRejects(t *testing.T) {
	f := Must(true)

	_, err := f.NewDecoder([]byte{0xff})
	require.Error(t, err, "malformed")

	intKeys, err := cbor.Marshal(map[int]string{1: "a"})
	require.NoError(t, err)
	_, err = f.NewDecoder(intKeys)
	require.Error(t, err, "non-string keys")
}

func TestIncompleteDocument(t *testing.T) {
	e := Must(false).NewEncoder()
	require.NoError(t, e.BeginSeq(1))
	_, err := e.Bytes()
	require.Error(t, err)
}
