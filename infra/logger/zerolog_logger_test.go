package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevelAndFormat(t *testing.T) {
	defer func() { consoleOutput = false }()

	require.NoError(t, Setup("debug", "console"))
	assert.True(t, consoleOutput)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, Setup("warn", "json"))
	assert.False(t, consoleOutput)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, Setup("info", ""))
	assert.False(t, consoleOutput)
}

func TestSetupRejectsBadValues(t *testing.T) {
	assert.Error(t, Setup("loud", "json"))
	assert.Error(t, Setup("info", "xml"))
}

func TestZerologLoggerMethods(t *testing.T) {
	require.NoError(t, Setup("debug", "console"))
	defer func() { consoleOutput = false }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error")
}
