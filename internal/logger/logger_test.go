package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	t.Run("sets trace level", func(t *testing.T) {
		SetLevel("trace")
		require.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
	})

	t.Run("sets debug level", func(t *testing.T) {
		SetLevel("debug")
		require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("sets info level", func(t *testing.T) {
		SetLevel("info")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("sets warn level", func(t *testing.T) {
		SetLevel("warn")
		require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	})

	t.Run("sets error level", func(t *testing.T) {
		SetLevel("error")
		require.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	})

	t.Run("defaults to info for unknown level", func(t *testing.T) {
		SetLevel("unknown")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	// Reset to debug for other tests.
	SetLevel("debug")
}

func TestConfigure(t *testing.T) {
	original := Log
	t.Cleanup(func() {
		Log = original
		SetLevel("debug")
	})

	t.Run("applies level", func(t *testing.T) {
		Configure("warn", "console")
		require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	})

	t.Run("switches to json", func(t *testing.T) {
		Configure("info", "json")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
		require.NotNil(t, Log)
	})
}

func TestNew(t *testing.T) {
	SetLevel("debug")

	t.Run("json output has fields", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, true)
		log.Info().Uint32("max_conns", 10).Msg("pool ready")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "pool ready", entry["message"])
		require.Equal(t, "info", entry["level"])
		require.InDelta(t, 10, entry["max_conns"], 0)
		require.Contains(t, entry, "time")
	})

	t.Run("console output is human readable", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, false)
		log.Info().Str("key", "value").Msg("test message")

		require.Contains(t, buf.String(), "test message")
		require.Contains(t, buf.String(), "key=")
	})
}

func TestLoggerInit(t *testing.T) {
	t.Run("logger is initialized", func(t *testing.T) {
		require.NotNil(t, Log)
	})

	t.Run("can log with fields", func(t *testing.T) {
		Log.Info().
			Str("key", "value").
			Int("count", 42).
			Msg("test with fields")
	})
}
