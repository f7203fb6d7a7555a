package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testArtifact(deps ...string) *Artifact {
	return &Artifact{
		Package: "example.com/demo/oneshotgen",
		Name:    "session_state_consume.go",
		Content: []byte("package oneshotgen\n\nfunc ConsumeMessage() {}\n"),
		Deps:    deps,
	}
}

func TestWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a formatted artifact", func(t *testing.T) {
		target := t.TempDir()
		src := writeSource(t, t.TempDir(), "state.go", "package app\n")
		w := NewWriter(target)

		written, err := w.Write(testArtifact(src))
		require.NoError(t, err)
		assert.True(t, written)

		out, err := os.ReadFile(filepath.Join(target, "session_state_consume.go"))
		require.NoError(t, err)
		assert.Contains(t, string(out), "func ConsumeMessage()")
		assert.Equal(t, 1, w.Metrics().FilesWritten)
	})

	t.Run("skips an unchanged artifact", func(t *testing.T) {
		target := t.TempDir()
		src := writeSource(t, t.TempDir(), "state.go", "package app\n")
		w := NewWriter(target)

		_, err := w.Write(testArtifact(src))
		require.NoError(t, err)
		written, err := w.Write(testArtifact(src))
		require.NoError(t, err)
		assert.False(t, written)
		assert.Equal(t, 1, w.Metrics().FilesSkipped)
	})

	t.Run("rewrites when a dependency changes", func(t *testing.T) {
		target := t.TempDir()
		srcDir := t.TempDir()
		src := writeSource(t, srcDir, "state.go", "package app\n")
		w := NewWriter(target)

		_, err := w.Write(testArtifact(src))
		require.NoError(t, err)
		writeSource(t, srcDir, "state.go", "package app // changed\n")
		written, err := w.Write(testArtifact(src))
		require.NoError(t, err)
		assert.True(t, written)
	})

	t.Run("manifest survives across writers", func(t *testing.T) {
		target := t.TempDir()
		src := writeSource(t, t.TempDir(), "state.go", "package app\n")

		w := NewWriter(target)
		_, err := w.Write(testArtifact(src))
		require.NoError(t, err)
		require.NoError(t, w.Flush())

		reloaded := NewWriter(target)
		written, err := reloaded.Write(testArtifact(src))
		require.NoError(t, err)
		assert.False(t, written)
		assert.NotEmpty(t, reloaded.SourceDirs())
	})

	t.Run("unparseable content fails with a generation error", func(t *testing.T) {
		target := t.TempDir()
		w := NewWriter(target)
		a := &Artifact{Name: "broken.go", Content: []byte("pack age nope")}

		_, err := w.Write(a)
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		// The unformatted content is kept for debugging.
		_, statErr := os.Stat(filepath.Join(target, "broken.go.error"))
		assert.NoError(t, statErr)
	})

	t.Run("missing dependency files do not fail the write", func(t *testing.T) {
		target := t.TempDir()
		w := NewWriter(target)
		written, err := w.Write(testArtifact(filepath.Join(t.TempDir(), "ghost.go")))
		require.NoError(t, err)
		assert.True(t, written)
	})
}
