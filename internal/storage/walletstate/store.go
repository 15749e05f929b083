// Package walletstate persists the simulated settlement wallet so
// restarts keep balances.
package walletstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const defaultStateDir = "./wal/wallet"

// Store reads and writes one wallet snapshot file.
type Store struct {
	path string
}

func stateDir() string {
	if dir := os.Getenv("BITINCH_WALLET_STATE_DIR"); dir != "" {
		return dir
	}
	return defaultStateDir
}

// NewStore creates a wallet state store under the state directory. The
// scope distinguishes independent wallets (e.g. per profile).
func NewStore(scope string) (*Store, error) {
	dir := stateDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create wallet state dir")
	}

	name := sanitizeScope(scope)
	if name == "" {
		name = "default"
	}
	return &Store{path: filepath.Join(dir, name+".json")}, nil
}

// State is the persisted wallet payload. Balances are decimal strings.
type State struct {
	Balances map[string]string `json:"balances"`
}

// Load reads the wallet state from disk. A missing file yields (nil, nil).
func (s *Store) Load() (*State, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read wallet state")
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode wallet state")
	}
	return &state, nil
}

// Save writes the wallet state atomically (write temp, rename).
func (s *Store) Save(state *State) error {
	if s == nil || s.path == "" || state == nil {
		return nil
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode wallet state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write wallet state")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "rename wallet state")
}

func sanitizeScope(scope string) string {
	scope = strings.ToLower(strings.TrimSpace(scope))
	var b strings.Builder
	for _, r := range scope {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
