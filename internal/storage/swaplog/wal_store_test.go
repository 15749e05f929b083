package swaplog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitinch/bitinch/internal/domain"
)

func newTestStore(t *testing.T) *WALStore {
	t.Helper()
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func record(id, pair string) domain.SwapRecord {
	return domain.SwapRecord{
		ID:           id,
		Timestamp:    time.Now().UTC().Truncate(time.Second),
		Pair:         pair,
		InputAmount:  "1",
		OutputAmount: "15",
		Rate:         "15",
	}
}

func TestAppendAndRead(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(record("a", "BTC-ETH")))
	require.NoError(t, store.Append(record("b", "ETH-BTC")))
	require.NoError(t, store.Append(record("c", "BTC-USDT")))

	entries, err := store.RecordsAfter(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "a", entries[0].Record.ID)
	require.Equal(t, "c", entries[2].Record.ID)

	// indices are strictly increasing
	require.Less(t, entries[0].Index, entries[1].Index)
	require.Less(t, entries[1].Index, entries[2].Index)
}

func TestRecordsAfterResume(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(record("a", "BTC-ETH")))
	require.NoError(t, store.Append(record("b", "BTC-ETH")))

	all, err := store.RecordsAfter(0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	tail, err := store.RecordsAfter(all[0].Index)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	require.Equal(t, "b", tail[0].Record.ID)

	none, err := store.RecordsAfter(all[1].Index)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestAppendRequiresPair(t *testing.T) {
	store := newTestStore(t)

	err := store.Append(domain.SwapRecord{ID: "x"})
	require.Error(t, err)
}
