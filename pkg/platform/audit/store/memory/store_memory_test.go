package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "eventreg/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	for _, e := range []audit.Event{
		{Email: "ada@example.com", Action: audit.ActionRegisteredFree},
		{Email: "grace@example.com", Action: audit.ActionRegisteredPaid},
		{Email: "ADA@example.com", Action: audit.ActionAttendanceConfirm},
	} {
		require.NoError(t, store.Append(ctx, e))
	}

	t.Run("list by email ignores case", func(t *testing.T) {
		events, err := store.ListByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, audit.ActionRegisteredFree, events[0].Action)
		assert.Equal(t, audit.ActionAttendanceConfirm, events[1].Action)
	})

	t.Run("recent is newest first and bounded", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, audit.ActionAttendanceConfirm, events[0].Action)
		assert.Equal(t, audit.ActionRegisteredPaid, events[1].Action)
	})

	t.Run("clear", func(t *testing.T) {
		store.Clear()
		events, err := store.ListRecent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
