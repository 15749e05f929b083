package dashboard

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitinch/bitinch/internal/domain"
)

type memStore struct {
	entries []domain.SwapRecordEntry
}

func (m *memStore) RecordsAfter(index uint64) ([]domain.SwapRecordEntry, error) {
	var out []domain.SwapRecordEntry
	for _, e := range m.entries {
		if e.Index > index {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestParseLastEventID(t *testing.T) {
	require.EqualValues(t, 0, parseLastEventID("", ""))
	require.EqualValues(t, 7, parseLastEventID("7", ""))
	require.EqualValues(t, 9, parseLastEventID("", "9"))
	// header wins over query
	require.EqualValues(t, 7, parseLastEventID("7", "9"))
	require.EqualValues(t, 9, parseLastEventID("junk", "9"))
	require.EqualValues(t, 0, parseLastEventID("junk", "junk"))
}

func TestIndexPage(t *testing.T) {
	server := NewServer(":0", &memStore{})

	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "swap history")

	rec = httptest.NewRecorder()
	server.mux().ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))
	require.Equal(t, 404, rec.Code)
}

func TestSwapStreamReplaysHistory(t *testing.T) {
	store := &memStore{entries: []domain.SwapRecordEntry{
		{Index: 1, Record: domain.SwapRecord{ID: "a", Pair: "BTC-ETH", InputAmount: "1", OutputAmount: "15"}},
		{Index: 2, Record: domain.SwapRecord{ID: "b", Pair: "ETH-BTC", InputAmount: "15", OutputAmount: "1"}},
	}}
	server := NewServer(":0", store)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest("GET", "/swaps/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, req)

	body := rec.Body.String()
	require.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
	require.Contains(t, body, "id: 1\n")
	require.Contains(t, body, "id: 2\n")
	require.Contains(t, body, `"pair":"BTC-ETH"`)
	require.Equal(t, 2, strings.Count(body, "event: swap"))
	require.NotContains(t, body, "event: no_data")
}

func TestSwapStreamResumesAfterLastEventID(t *testing.T) {
	store := &memStore{entries: []domain.SwapRecordEntry{
		{Index: 1, Record: domain.SwapRecord{ID: "a", Pair: "BTC-ETH"}},
		{Index: 2, Record: domain.SwapRecord{ID: "b", Pair: "ETH-BTC"}},
	}}
	server := NewServer(":0", store)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest("GET", "/swaps/stream", nil).WithContext(ctx)
	req.Header.Set("Last-Event-ID", "1")
	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, req)

	body := rec.Body.String()
	require.NotContains(t, body, "id: 1\n")
	require.Contains(t, body, "id: 2\n")
}

func TestSwapStreamEmptyHistorySignalsNoData(t *testing.T) {
	server := NewServer(":0", &memStore{})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest("GET", "/swaps/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, req)

	require.Contains(t, rec.Body.String(), "event: no_data")
}
