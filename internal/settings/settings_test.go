package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/settings"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

func newTab(grid [][]string) *sheetdb.MemorySubtable {
	return sheetdb.NewMemory().AddTable("t").AddSubtable("Settings", 3, grid)
}

func TestGet_ParsesKnownKeys(t *testing.T) {
	tab := newTab([][]string{
		{"Setting", "Value", "Updated"},
		{"form_locked", "yes", ""},
		{"lock_message", "Back Monday!", ""},
		{"order_goal", "150", ""},
		{"theme", "dark", ""},
		{"unknown_key", "ignored", ""},
	})
	svc := settings.NewService(tab, cache.New())

	v := svc.Get(context.Background())
	assert.True(t, v.FormLocked)
	assert.Equal(t, "Back Monday!", v.LockMessage)
	assert.Equal(t, 150, v.OrderGoal)
	assert.Equal(t, "dark", v.Theme)
}

func TestGet_ServesLastKnownOnFailure(t *testing.T) {
	tab := newTab([][]string{
		{"Setting", "Value", "Updated"},
		{"order_goal", "42", ""},
	})
	store := cache.New()
	svc := settings.NewService(tab, store)
	ctx := context.Background()

	first := svc.Get(ctx)
	require.Equal(t, 42, first.OrderGoal)

	tab.FailAllReads = errors.New("backend down")
	store.Invalidate(cache.KeySettings)

	again := svc.Get(ctx)
	assert.Equal(t, 42, again.OrderGoal, "stale snapshot beats no snapshot")
}

func TestGet_DefaultsWhenNeverLoaded(t *testing.T) {
	tab := newTab([][]string{{"Setting", "Value", "Updated"}})
	tab.FailAllReads = errors.New("backend down")
	svc := settings.NewService(tab, cache.New())

	v := svc.Get(context.Background())
	assert.False(t, v.FormLocked)
	assert.Zero(t, v.OrderGoal)
}

func TestSet_UpdatesExistingRowAndInvalidates(t *testing.T) {
	tab := newTab([][]string{
		{"Setting", "Value", "Updated"},
		{"order_goal", "100", "2024-01-01 00:00:00"},
	})
	store := cache.New()
	svc := settings.NewService(tab, store)
	ctx := context.Background()

	require.Equal(t, 100, svc.Get(ctx).OrderGoal)

	require.NoError(t, svc.Set(ctx, "order_goal", "200"))
	assert.Equal(t, 200, svc.Get(ctx).OrderGoal, "cache dropped on write")

	grid := tab.Grid()
	require.Len(t, grid, 2, "existing row updated in place")
	assert.Equal(t, "200", grid[1][1])
	assert.NotEqual(t, "2024-01-01 00:00:00", grid[1][2], "timestamp refreshed")
}

func TestSet_AppendsNewKey(t *testing.T) {
	tab := newTab([][]string{{"Setting", "Value", "Updated"}})
	svc := settings.NewService(tab, cache.New())
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "Theme", "light"))
	assert.Equal(t, "light", svc.Get(ctx).Theme)

	grid := tab.Grid()
	require.Len(t, grid, 2)
	assert.Equal(t, "theme", grid[1][0], "keys stored lowercase")
}

func TestSetFormLocked(t *testing.T) {
	tab := newTab([][]string{{"Setting", "Value", "Updated"}})
	svc := settings.NewService(tab, cache.New())
	ctx := context.Background()

	require.NoError(t, svc.SetFormLocked(ctx, true, "Round closed, see you next batch"))
	v := svc.Get(ctx)
	assert.True(t, v.FormLocked)
	assert.Equal(t, "Round closed, see you next batch", v.LockMessage)

	require.NoError(t, svc.SetFormLocked(ctx, false, ""))
	assert.False(t, svc.Get(ctx).FormLocked)
}
