// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"worker": "route-record"})

	log.WithError(errors.New("disk full")).Warn("insert failed", map[string]interface{}{
		"table": "businesses",
		"cause": errors.New("timeout"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "insert failed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "route-record", ctx["worker"])
	assert.Equal(t, "businesses", ctx["table"])
	assert.Equal(t, "disk full", ctx["error"])
	assert.Equal(t, "timeout", ctx["cause"])
}

func TestZapAdapter_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core))

	log.Debug("hidden", nil)
	log.Info("shown", nil)
	log.With(map[string]interface{}{"k": 1}).Error("also shown", nil)

	assert.Equal(t, 2, logs.Len())
}

func TestNew_FallsBackOnBadOutput(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/x/y.log")
	assert.NotNil(t, l)
}
