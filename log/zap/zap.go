// Package zap adapts a *zap.Logger to store.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/valserde/store"
	"go.uber.org/zap"
)

type ZapLogger struct{ L *zap.Logger }

var _ store.Logger = ZapLogger{}

func (z ZapLogger) Debug(msg string, f store.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f store.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f store.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f store.Fields) { z.L.Error(msg, zf(f)...) }

// zf converts fields in key order. Errors go through zap.NamedError so they
// render as strings.
func zf(f store.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
