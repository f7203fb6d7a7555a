package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig(
			WithPatterns("./..."),
			WithTarget("oneshotgen"),
			WithPackage("example.com/demo/oneshotgen"),
		)
		require.NoError(t, err)
		assert.Equal(t, DefaultHeader, cfg.Header)
		assert.Equal(t, 3, cfg.Rounds)
		assert.Positive(t, cfg.Workers)
		assert.IsType(t, &Collector{}, cfg.Sink)
	})

	t.Run("missing patterns", func(t *testing.T) {
		_, err := NewConfig(
			WithTarget("oneshotgen"),
			WithPackage("example.com/demo/oneshotgen"),
		)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "Patterns")
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := NewConfig(
			WithPatterns("./..."),
			WithPackage("example.com/demo/oneshotgen"),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Target")
	})

	t.Run("missing package", func(t *testing.T) {
		_, err := NewConfig(
			WithPatterns("./..."),
			WithTarget("oneshotgen"),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Package")
	})

	t.Run("patterns accumulate", func(t *testing.T) {
		cfg, err := NewConfig(
			WithPatterns("./app/..."),
			WithPatterns("./ui/..."),
			WithTarget("oneshotgen"),
			WithPackage("example.com/demo/oneshotgen"),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"./app/...", "./ui/..."}, cfg.Patterns)
	})

	t.Run("invalid rounds", func(t *testing.T) {
		_, err := NewConfig(
			WithPatterns("./..."),
			WithTarget("oneshotgen"),
			WithPackage("example.com/demo/oneshotgen"),
			WithRounds(0),
		)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("nil sink rejected", func(t *testing.T) {
		_, err := NewConfig(
			WithPatterns("./..."),
			WithTarget("oneshotgen"),
			WithPackage("example.com/demo/oneshotgen"),
			WithSink(nil),
		)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("non-positive workers keeps default", func(t *testing.T) {
		cfg, err := NewConfig(
			WithPatterns("./..."),
			WithTarget("oneshotgen"),
			WithPackage("example.com/demo/oneshotgen"),
			WithWorkers(-1),
		)
		require.NoError(t, err)
		assert.Positive(t, cfg.Workers)
	})
}

func TestPkgName(t *testing.T) {
	cfg := &Config{Package: "example.com/demo/oneshotgen"}
	assert.Equal(t, "oneshotgen", cfg.PkgName())

	cfg = &Config{Package: "oneshotgen"}
	assert.Equal(t, "oneshotgen", cfg.PkgName())
}
