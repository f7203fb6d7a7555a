package gen

import (
	"go/token"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "internal", Internal.String())
}

func TestDiagnosticString(t *testing.T) {
	t.Run("without position", func(t *testing.T) {
		d := Diagnostic{Severity: Error, Message: "owner is unexported"}
		assert.Equal(t, "error: owner is unexported", d.String())
	})

	t.Run("with position", func(t *testing.T) {
		d := Diagnostic{
			Severity: Error,
			Message:  "owner is unexported",
			Pos:      token.Position{Filename: "state.go", Line: 12, Column: 2},
		}
		assert.Equal(t, "state.go:12:2: error: owner is unexported", d.String())
	})
}

func TestCollector(t *testing.T) {
	t.Run("retains arrival order", func(t *testing.T) {
		var c Collector
		reportf(&c, Info, token.Position{}, "round %d", 1)
		reportf(&c, Error, token.Position{}, "bad owner")
		reportf(&c, Info, token.Position{}, "round %d", 2)

		all := c.All()
		require.Len(t, all, 3)
		assert.Equal(t, "round 1", all[0].Message)
		assert.Equal(t, "bad owner", all[1].Message)
		assert.Equal(t, "round 2", all[2].Message)
	})

	t.Run("Errors filters out info", func(t *testing.T) {
		var c Collector
		reportf(&c, Info, token.Position{}, "progress")
		reportf(&c, Error, token.Position{}, "bad owner")
		reportf(&c, Internal, token.Position{}, "panic recovered")

		errs := c.Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, Error, errs[0].Severity)
		assert.Equal(t, Internal, errs[1].Severity)
	})

	t.Run("Dump writes one line per diagnostic", func(t *testing.T) {
		var c Collector
		reportf(&c, Info, token.Position{}, "first")
		reportf(&c, Error, token.Position{}, "second")

		var b strings.Builder
		c.Dump(&b)
		lines := strings.Split(strings.TrimSpace(b.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "info: first", lines[0])
		assert.Equal(t, "error: second", lines[1])
	})

	t.Run("safe for concurrent report", func(t *testing.T) {
		var c Collector
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					reportf(&c, Info, token.Position{}, "msg")
				}
			}()
		}
		wg.Wait()
		assert.Len(t, c.All(), 1600)
	})

	t.Run("All returns a copy", func(t *testing.T) {
		var c Collector
		reportf(&c, Info, token.Position{}, "original")
		all := c.All()
		all[0].Message = "mutated"
		assert.Equal(t, "original", c.All()[0].Message)
	})
}
