package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}

func TestNew(t *testing.T) {
	lg := New("debug")
	assert.True(t, lg.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New("error").Desugar().Core().Enabled(zapcore.WarnLevel))
}
