// Package swaplog persists executed swaps in a WAL for history listing
// and dashboard streaming.
package swaplog

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/bitinch/bitinch/internal/domain"
)

const (
	defaultSwapDir   = "./wal/swaps"
	swapSegmentLimit = 1000
	swapMaxSegments  = 100
	swapKeyPrefix    = "swap_"
)

// WALStore is an append-only log of executed swap records.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes the swap WAL under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultSwapDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "swap_",
		SegmentThreshold: swapSegmentLimit,
		MaxSegments:      swapMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init swap WAL")
	}
	return &WALStore{wal: wal}, nil
}

// Append writes the record to the WAL. Records must carry a pair.
func (s *WALStore) Append(record domain.SwapRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("swap store is not initialized")
	}
	if record.Pair == "" {
		return errors.New("swap record pair is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal swap record")
	}

	key := swapKeyPrefix + record.Pair

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Write(s.wal.CurrentIndex()+1, key, payload)
}

// RecordsAfter returns all swap records written after the given index.
func (s *WALStore) RecordsAfter(index uint64) ([]domain.SwapRecordEntry, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("swap store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	entries := make([]domain.SwapRecordEntry, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, swapKeyPrefix) {
			continue
		}

		var record domain.SwapRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, errors.Wrapf(err, "decode swap record at index %d", idx)
		}
		entries = append(entries, domain.SwapRecordEntry{Index: idx, Record: record})
	}
	return entries, nil
}

// Close releases the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return nil
	}
	return s.wal.Close()
}
