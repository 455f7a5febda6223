package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparkling.yaml")
	err := os.WriteFile(path, []byte("appName: counter\nnumWorkers: 3\nlogLevel: debug\n"), 0644)
	require.Nil(t, err)

	opts, err := LoadOptions(path)
	require.Nil(t, err)
	require.Equal(t, "counter", opts.AppName)
	require.Equal(t, 3, opts.NumWorkers)
	require.Equal(t, 0, opts.DefaultParallelism)
	require.Equal(t, "debug", opts.LogLevel)

	require.Nil(t, ensureDefaultOptionsValues(opts))
	require.Equal(t, 3, opts.DefaultParallelism)
}

func TestEnvironmentOverridesOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparkling.yaml")
	err := os.WriteFile(path, []byte("numWorkers: 3\n"), 0644)
	require.Nil(t, err)
	t.Setenv(EnvNumWorkers, "5")
	t.Setenv(EnvDefaultParallelism, "12")
	t.Setenv(EnvLogLevel, "warn")

	opts, err := LoadOptions(path)
	require.Nil(t, err)
	require.Equal(t, 5, opts.NumWorkers)
	require.Equal(t, 12, opts.DefaultParallelism)
	require.Equal(t, "warn", opts.LogLevel)

	t.Setenv(EnvNumWorkers, "many")
	_, err = LoadOptions(path)
	require.NotNil(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := &Options{}
	require.Nil(t, ensureDefaultOptionsValues(opts))
	require.Equal(t, "sparkling", opts.AppName)
	require.Equal(t, 1, opts.NumWorkers)
	require.Equal(t, 1, opts.DefaultParallelism)
	require.Equal(t, "INFO", opts.LogLevel)

	require.NotNil(t, ensureDefaultOptionsValues(&Options{LogLevel: "loud"}))
	_, err := CreateContext(&Options{LogLevel: "loud"})
	require.NotNil(t, err)
}

func TestLoadOptionsRejectsMalformedFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparkling.yaml")
	err := os.WriteFile(path, []byte("numWorkers: [1, 2\n"), 0644)
	require.Nil(t, err)
	_, err = LoadOptions(path)
	require.NotNil(t, err)
	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NotNil(t, err)
}
