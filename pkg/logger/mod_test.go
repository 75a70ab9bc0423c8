package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expectedLogger := NewLogger(TestConfig())
		ctx := ContextWithLogger(context.Background(), expectedLogger)

		actualLogger := FromContext(ctx)

		require.NotNil(t, actualLogger)
		assert.Equal(t, expectedLogger, actualLogger)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		logger := FromContext(context.Background())

		require.NotNil(t, logger)
		logger.Info("test message from default logger")
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerCtxKey, "not a logger")

		logger := FromContext(ctx)

		require.NotNil(t, logger)
		logger.Info("test message from fallback logger")
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	t.Run("Should map each named level", func(t *testing.T) {
		assert.Equal(t, charmlog.DebugLevel, DebugLevel.ToCharmlogLevel())
		assert.Equal(t, charmlog.InfoLevel, InfoLevel.ToCharmlogLevel())
		assert.Equal(t, charmlog.WarnLevel, WarnLevel.ToCharmlogLevel())
		assert.Equal(t, charmlog.ErrorLevel, ErrorLevel.ToCharmlogLevel())
	})

	t.Run("Should fall back to info level for unknown values", func(t *testing.T) {
		assert.Equal(t, charmlog.InfoLevel, LogLevel("verbose").ToCharmlogLevel())
		assert.Equal(t, charmlog.InfoLevel, NoLevel.ToCharmlogLevel())
	})
}

func TestLogger_With(t *testing.T) {
	t.Run("Should carry structured fields through With", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: DebugLevel, Output: &buf})

		logger.With("component", "storage").Info("adapter ready")

		out := buf.String()
		assert.Contains(t, out, "adapter ready")
		assert.Contains(t, out, "component")
		assert.Contains(t, out, "storage")
	})
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Run("Should suppress debug output at info level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf})

		logger.Debug("hidden")
		logger.Info("visible")

		out := buf.String()
		assert.False(t, strings.Contains(out, "hidden"))
		assert.Contains(t, out, "visible")
	})
}
