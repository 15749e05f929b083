package walletstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	store, err := NewStore("roundtrip")
	require.NoError(t, err)

	require.NoError(t, store.Save(&State{Balances: map[string]string{
		"BTC": "9.5",
		"ETH": "15",
	}}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "9.5", loaded.Balances["BTC"])
	require.Equal(t, "15", loaded.Balances["ETH"])
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	store, err := NewStore("fresh")
	require.NoError(t, err)

	state, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestScopesAreIsolated(t *testing.T) {
	t.Setenv("BITINCH_WALLET_STATE_DIR", t.TempDir())

	a, err := NewStore("alpha")
	require.NoError(t, err)
	b, err := NewStore("beta")
	require.NoError(t, err)

	require.NoError(t, a.Save(&State{Balances: map[string]string{"BTC": "1"}}))

	state, err := b.Load()
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestSanitizeScope(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Default", "default"},
		{"  my profile!  ", "myprofile"},
		{"a-b_c9", "a-b_c9"},
		{"../../etc/passwd", "etcpasswd"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sanitizeScope(tt.in), "scope %q", tt.in)
	}
}
