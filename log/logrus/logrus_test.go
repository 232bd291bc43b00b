package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/valserde/store"
)

func TestLogrusLoggerLevelsAndFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	l.Debug("d", nil)
	l.Warn("w", store.Fields{"key": "k1"})

	require.Len(t, hook.AllEntries(), 2)
	last := hook.LastEntry()
	require.Equal(t, logrus.WarnLevel, last.Level)
	require.Equal(t, "w", last.Message)
	require.Equal(t, "k1", last.Data["key"])
}
