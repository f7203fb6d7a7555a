package scan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/oneshot/compiler/scan"
)

func load(t *testing.T, pattern string) *scan.Result {
	t.Helper()
	res, err := scan.Load(context.Background(), "", pattern)
	require.NoError(t, err)
	return res
}

func named(fields []*scan.Field, name string) *scan.Field {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func TestLoadValid(t *testing.T) {
	res := load(t, "./testdata/valid")
	assert.Empty(t, res.Deferred)
	require.Len(t, res.Valid, 4)

	t.Run("direct field resolves to its record", func(t *testing.T) {
		notice := named(res.Valid, "Notice")
		require.NotNil(t, notice)
		require.NotNil(t, notice.Owner)
		assert.Equal(t, "ProfileState", notice.Owner.Name)
		assert.True(t, notice.Owner.HasDirective)
		assert.Equal(t, "*string", notice.Type.String())
		assert.Empty(t, notice.Tag)
		assert.NotEmpty(t, notice.File)
		assert.True(t, notice.Pos.IsValid())
	})

	t.Run("raw tag arguments survive unparsed", func(t *testing.T) {
		items := named(res.Valid, "Items")
		require.NotNil(t, items)
		assert.Equal(t, "policy=consume_then_action", items.Tag)
		require.NotNil(t, items.Owner)
		assert.Same(t, named(res.Valid, "Notice").Owner, items.Owner)
	})

	t.Run("nested field list walks up to the type declaration", func(t *testing.T) {
		hint := named(res.Valid, "Hint")
		require.NotNil(t, hint)
		require.NotNil(t, hint.Owner)
		assert.Equal(t, "wizard", hint.Owner.Name)
		assert.False(t, hint.Owner.HasDirective)
	})

	t.Run("anonymous struct field has no owner", func(t *testing.T) {
		blip := named(res.Valid, "Blip")
		require.NotNil(t, blip)
		assert.Nil(t, blip.Owner)
	})
}

func TestLoadDeferred(t *testing.T) {
	res := load(t, "./testdata/broken")

	// The unresolved field must come back as deferred, never be dropped.
	assert.Empty(t, res.Valid)
	require.Len(t, res.Deferred, 1)
	event := res.Deferred[0]
	assert.Equal(t, "Event", event.Name)
	require.NotNil(t, event.Owner)
	assert.Equal(t, "PendingState", event.Owner.Name)
}

func TestLoadNoMatch(t *testing.T) {
	_, err := scan.Load(context.Background(), "", "./testdata/nonexistent")
	assert.Error(t, err)
}
