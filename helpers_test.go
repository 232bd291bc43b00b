package valserde

import "github.com/unkn0wn-root/valserde/types"

// must unwraps a constructor result in fixtures, where an error is a bug in
// the test itself.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

var (
	optS32    = types.Option(types.S32())
	optOptS32 = types.Option(optS32)
	shape     = types.Variant(
		types.Case{Name: "circle", Type: types.Float64()},
		types.Case{Name: "square", Type: types.S32()},
		types.Case{Name: "none"},
	)
	perms    = types.Flags("read", "write", "exec")
	color    = types.Enum("red", "green", "blue")
	optional = types.Record(
		types.Field{Name: "required", Type: types.S32()},
		types.Field{Name: "optional", Type: optS32},
	)
)
