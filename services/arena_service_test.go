package services

import (
	"testing"
	"time"

	"quietbridge-community/game"

	"github.com/stretchr/testify/require"
)

func playVerticalWin(t *testing.T, r *game.Registry, m *game.Match) {
	t.Helper()
	for _, mv := range []struct {
		user string
		col  int
	}{
		{m.PlayerA, 3}, {m.PlayerB, 0},
		{m.PlayerA, 3}, {m.PlayerB, 1},
		{m.PlayerA, 3}, {m.PlayerB, 2},
		{m.PlayerA, 3},
	} {
		require.NoError(t, r.PlayColumn(mv.user, mv.col))
	}
}

func TestSettlePendingAwardsTrophiesOnce(t *testing.T) {
	db := newTestDB(t)
	wallets := NewWalletService(db)
	registry := game.NewRegistry()
	arena := NewArenaService(db, registry, wallets)

	registry.JoinLobby("u1")
	registry.JoinLobby("u2")
	created := registry.TryMatchmake()
	require.Len(t, created, 1)
	m := created[0]

	playVerticalWin(t, registry, m)

	// Every handler runs settlement; repeated passes must not award the
	// same game again.
	for i := 0; i < 3; i++ {
		arena.settlePending()
	}

	w, err := wallets.GetOrCreate(m.PlayerA)
	require.NoError(t, err)
	require.Equal(t, TrophiesWin, w.Trophies)

	l, err := wallets.GetOrCreate(m.PlayerB)
	require.NoError(t, err)
	require.Equal(t, 0, l.Trophies)
}

func TestSettlePendingSkipsDraws(t *testing.T) {
	db := newTestDB(t)
	wallets := NewWalletService(db)
	registry := game.NewRegistry()
	arena := NewArenaService(db, registry, wallets)

	registry.JoinLobby("u1")
	registry.JoinLobby("u2")
	created := registry.TryMatchmake()
	require.Len(t, created, 1)
	m := created[0]

	draw := []int{
		0, 1, 2, 3, 4, 5, 6, 1,
		0, 3, 2, 5, 4, 0, 6, 2,
		1, 4, 3, 6, 5, 0,
		1, 2, 3, 4, 5, 6,
		0, 1, 2, 3, 4, 5, 6, 1,
		0, 3, 2, 5, 4, 6,
	}
	for i, col := range draw {
		mover := m.PlayerA
		if i%2 == 1 {
			mover = m.PlayerB
		}
		require.NoError(t, registry.PlayColumn(mover, col))
	}

	arena.settlePending()

	for _, u := range []string{m.PlayerA, m.PlayerB} {
		w, err := wallets.GetOrCreate(u)
		require.NoError(t, err)
		require.Equal(t, 0, w.Trophies)
	}
}

func TestForfeitSettlesThroughArena(t *testing.T) {
	db := newTestDB(t)
	wallets := NewWalletService(db)
	registry := game.NewRegistry()
	arena := NewArenaService(db, registry, wallets)

	now := time.Unix(1700000000, 0)
	registry.SetClock(func() time.Time { return now })

	registry.JoinLobby("u1")
	registry.JoinLobby("u2")
	created := registry.TryMatchmake()
	require.Len(t, created, 1)
	m := created[0]

	require.NoError(t, registry.PlayColumn(m.PlayerA, 0))
	now = now.Add(game.AFKTimeout)

	registry.SweepForfeits()
	arena.settlePending()

	w, err := wallets.GetOrCreate(m.PlayerA)
	require.NoError(t, err)
	require.Equal(t, TrophiesWin, w.Trophies, "the waiting player wins the forfeit")
}
