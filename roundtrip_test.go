package valserde

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/valserde/types"
)

// Documents that decode and re-encode to exactly themselves.
func TestJSONRoundTrip(t *testing.T) {
	cases := []struct {
		typ types.Type
		doc string
	}{
		{types.Bool(), `true`},
		{types.S8(), `-128`},
		{types.U16(), `65535`},
		{types.S64(), `-9223372036854775808`},
		{types.U64(), `18446744073709551615`},
		{types.Float32(), `0.25`},
		{types.Float32(), `"NaN"`},
		{types.Float64(), `-1.5`},
		{types.Float64(), `-0`},
		{types.Float32(), `-0`},
		{types.Float64(), `"Infinity"`},
		{types.Float64(), `"-Infinity"`},
		{types.Char(), `"é"`},
		{types.String(), `"a\"b\\c\n"`},
		{types.List(types.S32()), `[]`},
		{types.List(types.U8()), `[1,2,255]`},
		{types.Tuple(types.S32(), types.String(), types.Bool()), `[1,"a",true]`},
		{optional, `{"required":1}`},
		{optional, `{"required":1,"optional":2}`},
		{types.List(optional), `[{"required":1},{"required":2,"optional":3}]`},
		{optOptS32, `null`},
		{optOptS32, `{"value":null}`},
		{optOptS32, `{"value":2}`},
		{types.Option(optOptS32), `{"value":{"value":null}}`},
		{optS32, `null`},
		{optS32, `7`},
		{shape, `{"circle":1.5}`},
		{shape, `{"square":-3}`},
		{shape, `{"none":null}`},
		{types.Result(types.U32(), types.String()), `{"result":7}`},
		{types.Result(types.U32(), types.String()), `{"error":"boom"}`},
		{types.Result(types.NoPayload, types.NoPayload), `{"error":null}`},
		{color, `"green"`},
		{perms, `["read","exec"]`},
		{perms, `[]`},
	}
	for _, tc := range cases {
		t.Run(tc.typ.String()+" "+tc.doc, func(t *testing.T) {
			v, err := FromJSON(tc.typ, []byte(tc.doc))
			require.NoError(t, err)
			out, err := ToJSON(v)
			require.NoError(t, err)
			require.Equal(t, tc.doc, string(out))

			back, err := FromJSON(tc.typ, out)
			require.NoError(t, err)
			require.True(t, v.Equal(back), "%s != %s", v, back)
		})
	}
}

// Documents that decode fine but are not in canonical form.
func TestJSONNormalizes(t *testing.T) {
	cases := []struct {
		typ       types.Type
		doc, want string
	}{
		{types.U8(), `"255"`, `255`},
		{types.S64(), `"-42"`, `-42`},
		{optional, `{"optional":2,"required":1}`, `{"required":1,"optional":2}`},
		{optional, `{"required":1,"optional":null}`, `{"required":1}`},
		{perms, `["write","read"]`, `["read","write"]`},
		{types.Float64(), `2`, `2`},
		{optS32, ` 7 `, `7`},
	}
	for _, tc := range cases {
		v, err := FromJSON(tc.typ, []byte(tc.doc))
		require.NoError(t, err, tc.doc)
		out, err := ToJSON(v)
		require.NoError(t, err, tc.doc)
		require.Equal(t, tc.want, string(out), tc.doc)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	doc := []byte(`[{"required":1,"optional":2},{"required":3}]`)
	typ := types.List(optional)
	v, err := FromJSON(typ, doc)
	require.NoError(t, err)

	first, err := ToJSON(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ToJSON(v)
		require.NoError(t, err)
		require.True(t, bytes.Equal(first, again))
	}
}
