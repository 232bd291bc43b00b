package json

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/valserde/gdm"
	"github.com/unkn0wn-root/valserde/gdm/internal/gdmtest"
)

func TestNumberKind(t *testing.T) {
	cases := map[string]gdm.Kind{
		"0":                    gdm.KindUint,
		"18446744073709551615": gdm.KindUint,
		"18446744073709551616": gdm.KindFloat,
		"-1":                   gdm.KindInt,
		"-9223372036854775808": gdm.KindInt,
		"-9223372036854775809": gdm.KindFloat,
		"-0":                   gdm.KindFloat,
		"1.0":                  gdm.KindFloat,
		"1e3":                  gdm.KindFloat,
		"-2E-2":                gdm.KindFloat,
	}
	for raw, want := range cases {
		require.Equal(t, want, numberKind([]byte(raw)), raw)
	}
}

func TestDecodeDocument(t *testing.T) {
	d, err := NewDecoder([]byte(` {"b":[1,-2,3.5,"sé",null,true],"a":{},"b":false} `))
	require.NoError(t, err)
	got, err := gdmtest.Walk(d)
	require.NoError(t, err)

	// Entries come in document order, duplicates included.
	want := gdm.Map{
		{Key: "b", Value: []any{uint64(1), int64(-2), 3.5, "sé", nil, true}},
		{Key: "a", Value: gdm.Map{}},
		{Key: "b", Value: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestNewDecoderRejects(t *testing.T) {
	docs := []string{
		``, `{"a":`, `[1,2`, `1 2`, `{} x`,
		`{"a":1,}`, `[1,]`, `{"a":01}`, `-01`, `[1.]`, `{'a':1}`,
	}
	for _, doc := range docs {
		_, err := NewDecoder([]byte(doc))
		require.Error(t, err, doc)
	}
}

func TestNewDecoderAcceptsTopLevelScalars(t *testing.T) {
	for _, doc := range []string{`0`, `-0`, `7`, `-12`, `1.5e3`, `"x"`, `true`, `null`, ` 3 `} {
		_, err := NewDecoder([]byte(doc))
		require.NoError(t, err, doc)
	}
}

func TestDecodeKindMismatch(t *testing.T) {
	d, err := NewDecoder([]byte(`"x"`))
	require.NoError(t, err)
	_, err = d.DecodeBool()
	var ke *gdm.KindError
	require.ErrorAs(t, err, &ke)

	_, err = d.DecodeBytes()
	require.ErrorAs(t, err, &ke)
}

func TestEncodeDocument(t *testing.T) {
	doc := gdm.Map{
		{Key: "n", Value: int64(-3)},
		{Key: "u", Value: uint64(18446744073709551615)},
		{Key: "f", Value: 0.5},
		{Key: "s", Value: "q\"\\\n"},
		{Key: "l", Value: []any{nil, true, []any{}, gdm.Map{}}},
		{Key: "b", Value: []byte("hi")},
	}
	e := NewEncoder()
	require.NoError(t, gdmtest.Write(e, doc))
	out, err := e.Bytes()
	require.NoError(t, err)
	require.Equal(t, `{"n":-3,"u":18446744073709551615,"f":0.5,"s":"q\"\\\n","l":[null,true,[],{}],"b":"aGk="}`, string(out))
}

func TestEncodeMisuse(t *testing.T) {
	e := NewEncoder()
	_, err := e.Bytes()
	require.Error(t, err, "empty document")

	require.NoError(t, e.BeginMap(1))
	require.Error(t, e.EncodeInt(1), "value without key")
	require.NoError(t, e.EncodeKey("k"))
	require.Error(t, e.EndMap(), "key without value")
	require.Error(t, e.EndSeq(), "wrong closer")

	top := NewEncoder()
	require.NoError(t, top.EncodeBool(true))
	require.Error(t, top.EncodeBool(false), "second top-level value")
}
