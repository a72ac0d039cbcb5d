package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlonpp/casabot/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestSettingsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.GetSetting(ctx, SettingGroupChatID)
	require.NoError(t, err)
	assert.False(t, ok, "unset key should report absent")

	require.NoError(t, store.SetSetting(ctx, SettingGroupChatID, "555"))
	require.NoError(t, store.SetSetting(ctx, SettingGroupChatID, "777"))

	v, ok, err := store.GetSetting(ctx, SettingGroupChatID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "777", v, "second write should overwrite in place")
}

func TestAddTaskDefaultsToSharedOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, TaskInput{Text: "Lavar louça", ChatID: 10})
	require.NoError(t, err)
	assert.Equal(t, model.SharedOwner, task.Owner)
	assert.NotZero(t, task.ID)

	due := time.Date(2025, 11, 21, 18, 0, 0, 0, time.UTC)
	task2, err := store.AddTask(ctx, TaskInput{Text: "Mercado", Owner: "Marlon", Due: &due, ChatID: 10})
	require.NoError(t, err)
	assert.Equal(t, "Marlon", task2.Owner)
	assert.Greater(t, task2.ID, task.ID, "ids are monotonically increasing")

	tasks, err := store.ListTasks(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.NotNil(t, tasks[1].Due)
	assert.True(t, due.Equal(*tasks[1].Due))
}

func TestRemovedTaskNeverReappears(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.AddTask(ctx, TaskInput{Text: "a", ChatID: 1})
	require.NoError(t, err)
	second, err := store.AddTask(ctx, TaskInput{Text: "b", ChatID: 1})
	require.NoError(t, err)

	ok, err := store.RemoveTask(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.RemoveTask(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second remove of same id reports absent")

	third, err := store.AddTask(ctx, TaskInput{Text: "c", ChatID: 1})
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID, "removed id must not be reused")

	tasks, err := store.ListTasks(ctx, nil, false)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.NotEqual(t, first.ID, task.ID)
	}
}

func TestMarkDoneExcludedFromPendingList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chatID := int64(42)
	task, err := store.AddTask(ctx, TaskInput{Text: "Buy milk", ChatID: chatID})
	require.NoError(t, err)
	_, err = store.AddTask(ctx, TaskInput{Text: "Walk dog", ChatID: chatID})
	require.NoError(t, err)
	_, err = store.AddTask(ctx, TaskInput{Text: "other chat", ChatID: 99})
	require.NoError(t, err)

	ok, err := store.MarkTaskDone(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkTaskDone(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, ok, "unknown id reports absent")

	pending, err := store.ListTasks(ctx, &chatID, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Walk dog", pending[0].Text)

	all, err := store.ListTasks(ctx, &chatID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Done)
}

func TestDuplicateShoppingItemIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.AddItem(ctx, "Milk")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.AddItem(ctx, "Milk")
	require.NoError(t, err)
	assert.False(t, added, "duplicate name is a no-op, not an error")

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestToggleItem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddItem(ctx, "Arroz")
	require.NoError(t, err)
	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	id := items[0].ID

	state, err := store.ToggleItem(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, *state)

	state, err = store.ToggleItem(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.False(t, *state)

	state, err = store.ToggleItem(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, state, "unknown id yields nil, not an error")
}

func TestResetPreservesItemsClearDeletesThem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Arroz", "Feijão", "Café"} {
		_, err := store.AddItem(ctx, name)
		require.NoError(t, err)
	}
	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	for _, item := range items {
		_, err := store.ToggleItem(ctx, item.ID)
		require.NoError(t, err)
	}

	require.NoError(t, store.ResetShopping(ctx))
	items, err = store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3, "reset keeps every row")
	for _, item := range items {
		assert.False(t, item.Checked)
	}

	require.NoError(t, store.ClearShopping(ctx))
	items, err = store.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSavingsLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sum, err := store.Savings(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Saved.IsZero())
	assert.False(t, sum.HasGoal())

	sum, err = store.AddSavings(ctx, decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)
	sum, err = store.AddSavings(ctx, decimal.RequireFromString("5.50"), "")
	require.NoError(t, err)
	assert.True(t, sum.Saved.Equal(decimal.RequireFromString("15.50")), "got %s", sum.Saved)

	sum, err = store.AddSavings(ctx, decimal.RequireFromString("-3.25"), "farmácia")
	require.NoError(t, err)
	assert.True(t, sum.Saved.Equal(decimal.RequireFromString("12.25")), "got %s", sum.Saved)

	entries, err := store.ListSavingsEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, model.EntryWithdrawal, entries[0].Kind, "newest first")
	assert.Equal(t, model.EntryDeposit, entries[1].Kind)

	_, err = store.AddSavings(ctx, decimal.Zero, "")
	assert.Error(t, err, "zero amount is rejected")
}

func TestSavingsNoDriftOverManySmallDeposits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tenCents := decimal.RequireFromString("0.10")
	for i := 0; i < 1000; i++ {
		_, err := store.AddSavings(ctx, tenCents, "")
		require.NoError(t, err)
	}

	sum, err := store.Savings(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Saved.Equal(decimal.RequireFromString("100.00")), "got %s", sum.Saved)
	assert.Equal(t, 1000, sum.Entries)
}

func TestSavingsGoalIndependentOfBalance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sum, err := store.SetSavingsGoal(ctx, decimal.RequireFromString("500"))
	require.NoError(t, err)
	assert.True(t, sum.HasGoal())
	assert.True(t, sum.Saved.IsZero())

	sum, err = store.AddSavings(ctx, decimal.RequireFromString("125"), "")
	require.NoError(t, err)
	assert.True(t, sum.ProgressPercent().Equal(decimal.RequireFromString("25")), "got %s", sum.ProgressPercent())

	_, err = store.SetSavingsGoal(ctx, decimal.RequireFromString("-1"))
	assert.Error(t, err)
}

func TestOpenIsIdempotentAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casabot.db")
	ctx := context.Background()

	db1, err := Open(path)
	require.NoError(t, err)
	store1 := NewStore(db1)
	_, err = store1.AddTask(ctx, TaskInput{Text: "persisted", ChatID: 1})
	require.NoError(t, err)
	require.NoError(t, store1.SetSetting(ctx, SettingLastDailySent, "2025-08-31"))
	_, err = store1.AddSavings(ctx, decimal.RequireFromString("7.77"), "")
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := Open(path)
	require.NoError(t, err, "re-applying schema on existing db must not fail")
	defer db2.Close()
	store2 := NewStore(db2)

	tasks, err := store2.ListTasks(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "persisted", tasks[0].Text)

	marker, ok, err := store2.GetSetting(ctx, SettingLastDailySent)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2025-08-31", marker)

	sum, err := store2.Savings(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Saved.Equal(decimal.RequireFromString("7.77")), "singleton row not reset on reopen")
}
