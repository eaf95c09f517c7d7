package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrNoActiveMatch = errors.New("no active match")
)

// Match pairs exactly two users. It is immutable once created; the
// mutable per-game state lives in the session keyed by the same id.
// Matches are never deleted — the registry keeps them for the life of
// the process and a rematch creates a fresh session, not a new Match.
type Match struct {
	ID        string    `json:"id"`
	PlayerA   string    `json:"player_a"`
	PlayerB   string    `json:"player_b"`
	CreatedAt time.Time `json:"created_at"`
}

// Other returns the participant that is not user.
func (m *Match) Other(user string) string {
	if m.PlayerA == user {
		return m.PlayerB
	}
	return m.PlayerA
}

// Registry owns all shared arena state: lobby membership, the
// append-only match list, the user→match index and the per-match game
// sessions. One mutex serializes every operation — matchmaking and move
// application both read and write several of these maps in one pass and
// must not interleave with each other.
type Registry struct {
	mu       sync.Mutex
	lobby    []string
	matches  []*Match
	byID     map[string]*Match
	matchOf  map[string]string
	games    map[string]*session
	outcomes []Outcome

	now func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]*Match),
		matchOf: make(map[string]string),
		games:   make(map[string]*session),
		now:     time.Now,
	}
}

// SetClock replaces the registry's time source. Tests use this to drive
// the AFK deadline.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// JoinLobby adds user to the matchmaking lobby. Idempotent.
func (r *Registry) JoinLobby(user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inLobbyLocked(user) {
		return
	}
	r.lobby = append(r.lobby, user)
}

// LeaveLobby removes user from the lobby and purges their match index
// entry, so a half-matched or waiting user leaves no dangling state.
func (r *Registry) LeaveLobby(user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLobbyLocked(user)
}

func (r *Registry) leaveLobbyLocked(user string) {
	for i, u := range r.lobby {
		if u == user {
			r.lobby = append(r.lobby[:i], r.lobby[i+1:]...)
			break
		}
	}
	delete(r.matchOf, user)
}

// Requeue drops the user's current pairing and puts them back in the
// lobby, leaving the abandoned opponent's index entry to be reconciled
// on the next matchmaking pass.
func (r *Registry) Requeue(user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLobbyLocked(user)
	r.lobby = append(r.lobby, user)
}

func (r *Registry) inLobbyLocked(user string) bool {
	for _, u := range r.lobby {
		if u == user {
			return true
		}
	}
	return false
}

// InLobby reports whether user is currently waiting in the lobby.
func (r *Registry) InLobby(user string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inLobbyLocked(user)
}

// Lobby returns a copy of the current lobby membership.
func (r *Registry) Lobby() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lobby))
	copy(out, r.lobby)
	return out
}

// FindMatch looks up a match by id. Ids are unique, so this is a direct
// lookup rather than a scan of the history list.
func (r *Registry) FindMatch(id string) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// MatchFor returns the user's current match. A stale index entry whose
// match no longer exists is cleared here, recovering the user to the
// "rejoin lobby" state instead of failing repeatedly.
func (r *Registry) MatchFor(user string) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matchForLocked(user)
}

func (r *Registry) matchForLocked(user string) (*Match, error) {
	id, ok := r.matchOf[user]
	if !ok {
		return nil, ErrNoActiveMatch
	}
	m, ok := r.byID[id]
	if !ok {
		delete(r.matchOf, user)
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// ReconcileStale removes match index entries for users who are no
// longer in the lobby. Run before each matchmaking pass so a user who
// already left cannot be paired.
func (r *Registry) ReconcileStale() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconcileStaleLocked()
}

func (r *Registry) reconcileStaleLocked() {
	inLobby := make(map[string]bool, len(r.lobby))
	for _, u := range r.lobby {
		inLobby[u] = true
	}
	for u := range r.matchOf {
		if !inLobby[u] {
			delete(r.matchOf, u)
		}
	}
}

// TryMatchmake pairs free lobby members into matches. Free means in the
// lobby with no match index entry. Pairing is uniformly random — the
// shuffled order decides both the pairs and which player moves first.
// Safe to call on every interaction; with fewer than two free users it
// is a no-op.
func (r *Registry) TryMatchmake() []*Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	free := make([]string, 0, len(r.lobby))
	for _, u := range r.lobby {
		if _, matched := r.matchOf[u]; !matched {
			free = append(free, u)
		}
	}
	rand.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})

	var created []*Match
	for len(free) >= 2 {
		a := free[len(free)-1]
		b := free[len(free)-2]
		free = free[:len(free)-2]
		created = append(created, r.makeMatchLocked(a, b))
	}
	return created
}

func (r *Registry) makeMatchLocked(a, b string) *Match {
	m := &Match{
		ID:        uuid.NewString(),
		PlayerA:   a,
		PlayerB:   b,
		CreatedAt: r.now(),
	}
	r.matches = append(r.matches, m)
	r.byID[m.ID] = m
	r.matchOf[a] = m.ID
	r.matchOf[b] = m.ID
	r.games[m.ID] = r.newSessionLocked(m)
	return m
}
