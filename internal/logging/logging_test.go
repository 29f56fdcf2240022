package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelWarn)

	logger.Info("hidden message")
	assert.Empty(t, buf.String())

	logger.Warn("visible message", "file", "a.txt")
	assert.Contains(t, buf.String(), "visible message")
	assert.Contains(t, buf.String(), "a.txt")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nothing happens")
}

func TestNewLogger_NoColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, LevelInfo).Info("plain", "file", "a.txt")
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "file=a.txt")
}
