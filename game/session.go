package game

import (
	"errors"
	"time"
)

// AFKTimeout is how long the player on turn may idle before forfeiting.
const AFKTimeout = 60 * time.Second

// DrawResult is the winner value recorded for a drawn game.
const DrawResult = "draw"

var (
	ErrGameOver    = errors.New("game already finished")
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameRunning = errors.New("game still in progress")
)

// session is one played-out game inside a match. Guarded by the
// registry mutex; never handed out directly.
type session struct {
	board      *Board
	turn       string
	winner     string // "" while in progress, a user id, or DrawResult
	settled    bool
	forfeit    bool
	moves      int
	createdAt  time.Time
	lastAction time.Time
}

func (r *Registry) newSessionLocked(m *Match) *session {
	now := r.now()
	return &session{
		board:      NewBoard(),
		turn:       m.PlayerA, // first mover, also on rematch
		createdAt:  now,
		lastAction: now,
	}
}

// Outcome is a finished game result, produced exactly once per session
// when it is settled. Winner is empty for draws.
type Outcome struct {
	MatchID    string
	Winner     string
	Loser      string
	Draw       bool
	Forfeit    bool
	Moves      int
	FinishedAt time.Time
}

// sessionForLocked resolves the user's current session, recreating it
// if the match exists but its game state was lost.
func (r *Registry) sessionForLocked(user string) (*Match, *session, error) {
	m, err := r.matchForLocked(user)
	if err != nil {
		return nil, nil, err
	}
	g, ok := r.games[m.ID]
	if !ok {
		g = r.newSessionLocked(m)
		r.games[m.ID] = g
	}
	return m, g, nil
}

// PlayColumn applies user's move in the given column. The AFK deadline
// is evaluated first, so a move arriving at or after the threshold is
// preempted by the forfeiture. Rejections leave all state unchanged.
func (r *Registry) PlayColumn(user string, col int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, g, err := r.sessionForLocked(user)
	if err != nil {
		return err
	}

	r.forfeitIfExpiredLocked(m, g)

	if g.winner != "" {
		return ErrGameOver
	}
	if g.turn != user {
		return ErrNotYourTurn
	}

	token := TokenA
	if user == m.PlayerB {
		token = TokenB
	}
	row, err := g.board.Drop(col, token)
	if err != nil {
		return err
	}

	g.moves++
	g.lastAction = r.now()

	switch {
	case g.board.ConnectsFour(row, col):
		g.winner = user
	case Full(g.moves):
		g.winner = DrawResult
	default:
		g.turn = m.Other(user)
	}
	return nil
}

func (r *Registry) forfeitIfExpiredLocked(m *Match, g *session) {
	if g.winner != "" {
		return
	}
	if r.now().Sub(g.lastAction) >= AFKTimeout {
		g.winner = m.Other(g.turn)
		g.forfeit = true
	}
}

// SweepForfeits evaluates the AFK deadline on every running session.
// Called by the background scheduler so idle games time out even when
// nobody is polling.
func (r *Registry) SweepForfeits() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.games {
		if m, ok := r.byID[id]; ok {
			r.forfeitIfExpiredLocked(m, g)
		}
	}
}

// SettlePending marks every freshly finished session as settled and
// returns its outcome. The settled flag flips under the registry lock,
// so each outcome is produced at most once no matter how many times the
// controller is re-evaluated. Draws settle without a winner.
func (r *Registry) SettlePending() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	var settled []Outcome
	for id, g := range r.games {
		m, ok := r.byID[id]
		if !ok {
			continue
		}
		if o := r.settleLocked(m, g); o != nil {
			settled = append(settled, *o)
		}
	}
	return settled
}

func (r *Registry) settleLocked(m *Match, g *session) *Outcome {
	if g.winner == "" || g.settled {
		return nil
	}
	g.settled = true

	o := Outcome{
		MatchID:    m.ID,
		Draw:       g.winner == DrawResult,
		Forfeit:    g.forfeit,
		Moves:      g.moves,
		FinishedAt: r.now(),
	}
	if !o.Draw {
		o.Winner = g.winner
		o.Loser = m.Other(g.winner)
	}
	r.outcomes = append(r.outcomes, o)
	return &o
}

// Rematch replaces the finished session with a fresh one for the same
// match: same two players, playerA keeps the first move. The old
// session is settled first so its outcome is never lost, and a running
// game cannot be thrown away.
func (r *Registry) Rematch(user string) ([]Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, g, err := r.sessionForLocked(user)
	if err != nil {
		return nil, err
	}
	r.forfeitIfExpiredLocked(m, g)
	if g.winner == "" {
		return nil, ErrGameRunning
	}

	var settled []Outcome
	if o := r.settleLocked(m, g); o != nil {
		settled = append(settled, *o)
	}
	r.games[m.ID] = r.newSessionLocked(m)
	return settled, nil
}

// DrainOutcomes hands the queued outcomes to the archiver and clears
// the queue.
func (r *Registry) DrainOutcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.outcomes
	r.outcomes = nil
	return out
}

// RequeueOutcomes puts outcomes back on the archive queue after a
// failed write so the next drain retries them.
func (r *Registry) RequeueOutcomes(outcomes []Outcome) {
	if len(outcomes) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(outcomes, r.outcomes...)
}

// View is the read-only snapshot the presentation layer renders from.
type View struct {
	User         string           `json:"user"`
	InLobby      bool             `json:"in_lobby"`
	LobbySize    int              `json:"lobby_size"`
	LobbyMembers []string         `json:"lobby_members"`
	Waiting      bool             `json:"waiting"`
	MatchID      string           `json:"match_id,omitempty"`
	PlayerA      string           `json:"player_a,omitempty"`
	PlayerB      string           `json:"player_b,omitempty"`
	Opponent     string           `json:"opponent,omitempty"`
	Board        [Rows][Cols]Cell `json:"board"`
	Turn         string           `json:"turn,omitempty"`
	YourTurn     bool             `json:"your_turn"`
	Winner       string           `json:"winner,omitempty"`
	Draw         bool             `json:"draw"`
	Finished     bool             `json:"finished"`
	Moves        int              `json:"moves"`
	AFKRemaining int              `json:"afk_remaining_seconds"`
}

// Snapshot builds the user's view of the arena. Reading the snapshot
// doubles as a tick: the AFK deadline of the user's session is
// evaluated here too, so an idle game observed via polling forfeits
// without waiting for the background sweep.
func (r *Registry) Snapshot(user string) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := View{
		User:         user,
		InLobby:      r.inLobbyLocked(user),
		LobbySize:    len(r.lobby),
		LobbyMembers: append([]string(nil), r.lobby...),
	}

	m, g, err := r.sessionForLocked(user)
	if errors.Is(err, ErrNoActiveMatch) {
		v.Waiting = v.InLobby
		return v, nil
	}
	if err != nil {
		return v, err
	}

	r.forfeitIfExpiredLocked(m, g)

	v.MatchID = m.ID
	v.PlayerA = m.PlayerA
	v.PlayerB = m.PlayerB
	v.Opponent = m.Other(user)
	v.Board = *g.board
	v.Turn = g.turn
	v.YourTurn = g.winner == "" && g.turn == user
	v.Winner = g.winner
	v.Draw = g.winner == DrawResult
	v.Finished = g.winner != ""
	v.Moves = g.moves
	if g.winner == "" {
		remaining := AFKTimeout - r.now().Sub(g.lastAction)
		if remaining < 0 {
			remaining = 0
		}
		v.AFKRemaining = int(remaining / time.Second)
	}
	return v, nil
}
