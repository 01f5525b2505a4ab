package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// unsetenv removes key for the duration of the test. t.Setenv first so the
// original value is restored on cleanup.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMapEnv(t *testing.T) {
	t.Parallel()

	env := MapEnv{"A": "1", "EMPTY": ""}

	v, ok := env.Lookup("A")
	require.True(t, ok)
	require.Equal(t, "1", v)

	v, ok = env.Lookup("EMPTY")
	require.True(t, ok, "empty value is still present")
	require.Empty(t, v)

	_, ok = env.Lookup("MISSING")
	require.False(t, ok)
}

func TestOSEnv(t *testing.T) {
	t.Setenv("PGCONNECT_TEST_VAR", "hello")

	v, ok := OSEnv.Lookup("PGCONNECT_TEST_VAR")
	require.True(t, ok)
	require.Equal(t, "hello", v)

	unsetenv(t, "PGCONNECT_TEST_VAR")
	_, ok = OSEnv.Lookup("PGCONNECT_TEST_VAR")
	require.False(t, ok)
}

func TestLayered(t *testing.T) {
	t.Parallel()

	t.Run("first hit wins", func(t *testing.T) {
		t.Parallel()
		env := Layered(MapEnv{"A": "top"}, MapEnv{"A": "bottom", "B": "bottom"})

		v, _ := env.Lookup("A")
		require.Equal(t, "top", v)
		v, _ = env.Lookup("B")
		require.Equal(t, "bottom", v)
	})

	t.Run("skips nil layers", func(t *testing.T) {
		t.Parallel()
		env := Layered(nil, MapEnv{"A": "x"})
		v, ok := env.Lookup("A")
		require.True(t, ok)
		require.Equal(t, "x", v)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		t.Parallel()
		_, ok := Layered(MapEnv{}, EnvFunc(func(string) (string, bool) { return "", false })).Lookup("A")
		require.False(t, ok)
	})

	t.Run("resolves through layers", func(t *testing.T) {
		t.Parallel()
		env := Layered(
			MapEnv{"DATABASE_MIN_CONNECTIONS": "2"},
			MapEnv{"DATABASE_URL": "postgres://file/db", "DATABASE_MIN_CONNECTIONS": "8"},
		)
		cfg, err := Resolve(env)
		require.NoError(t, err)
		require.Equal(t, ConnectionConfig{URL: "postgres://file/db", MinConnections: 2, MaxConnections: 2}, cfg)
	})
}

func TestDotEnv(t *testing.T) {
	t.Parallel()

	t.Run("reads variables without exporting them", func(t *testing.T) {
		t.Parallel()
		path := writeEnvFile(t, "DATABASE_URL=postgres://dotenv/db\nPGCONNECT_DOTENV_ONLY=6\n")

		env, err := DotEnv(path)
		require.NoError(t, err)
		require.Equal(t, MapEnv{
			"DATABASE_URL":          "postgres://dotenv/db",
			"PGCONNECT_DOTENV_ONLY": "6",
		}, env)

		_, inProcess := os.LookupEnv("PGCONNECT_DOTENV_ONLY")
		require.False(t, inProcess)
	})

	t.Run("earlier files win", func(t *testing.T) {
		t.Parallel()
		first := writeEnvFile(t, "A=first\n")
		second := writeEnvFile(t, "A=second\nB=second\n")

		env, err := DotEnv(first, second)
		require.NoError(t, err)
		require.Equal(t, "first", env["A"])
		require.Equal(t, "second", env["B"])
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := DotEnv(filepath.Join(t.TempDir(), "nope.env"))
		require.Error(t, err)
	})
}
