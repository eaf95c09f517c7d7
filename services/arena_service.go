// services/arena_service.go
package services

import (
	"errors"
	"log"

	"quietbridge-community/game"
	"quietbridge-community/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ArenaService drives the Connect Four arena: lobby membership,
// matchmaking, move application and settlement. Every handler runs one
// full re-evaluation pass (reconcile stale entries, matchmake, settle
// fresh outcomes) before and after the user's command, mirroring how
// each interaction advances the shared state.
type ArenaService struct {
	DB       *gorm.DB
	Registry *game.Registry
	Wallets  *WalletService
}

func NewArenaService(db *gorm.DB, registry *game.Registry, wallets *WalletService) *ArenaService {
	return &ArenaService{DB: db, Registry: registry, Wallets: wallets}
}

// advance runs one matchmaking + settlement pass.
func (s *ArenaService) advance() {
	s.Registry.ReconcileStale()
	s.Registry.TryMatchmake()
	s.settlePending()
}

// settlePending applies trophy settlement for every freshly settled
// outcome. The registry guarantees each outcome is handed out once, so
// a game can never be awarded twice.
func (s *ArenaService) settlePending() {
	for _, o := range s.Registry.SettlePending() {
		s.applyOutcome(o)
	}
}

func (s *ArenaService) applyOutcome(o game.Outcome) {
	if o.Draw {
		log.Printf("[ARENA] match %s finished in a draw after %d moves", o.MatchID, o.Moves)
		return
	}
	s.Wallets.AwardOutcome(o.Winner, o.Loser)
	if o.Forfeit {
		log.Printf("[ARENA] match %s: %s wins by AFK forfeit", o.MatchID, o.Winner)
	} else {
		log.Printf("[ARENA] match %s: %s wins after %d moves", o.MatchID, o.Winner, o.Moves)
	}
}

// state builds the JSON arena snapshot for the user, decorated with
// display names and both players' trophy counts.
func (s *ArenaService) state(c *fiber.Ctx, userID string) error {
	view, err := s.Registry.Snapshot(userID)
	if err != nil {
		if errors.Is(err, game.ErrMatchNotFound) {
			// Registry was reset under the user; their index entry is
			// already cleared, prompt a re-join.
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "match not found (state reset), rejoin the lobby",
			})
		}
		log.Printf("[ARENA] snapshot failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build arena state"})
	}

	resp := fiber.Map{"state": view}

	names := make(map[string]string, len(view.LobbyMembers)+2)
	for _, u := range view.LobbyMembers {
		names[u] = utils.DisplayName(u)
	}

	if view.MatchID != "" {
		names[view.PlayerA] = utils.DisplayName(view.PlayerA)
		names[view.PlayerB] = utils.DisplayName(view.PlayerB)

		trophies := fiber.Map{}
		for _, u := range []string{view.PlayerA, view.PlayerB} {
			if w, err := s.Wallets.GetOrCreate(u); err == nil {
				trophies[u] = w.Trophies
			}
		}
		resp["trophies"] = trophies
	}
	resp["display_names"] = names

	return c.JSON(resp)
}

// --- Handlers ---

// JoinLobby puts the user into the matchmaking lobby.
func (s *ArenaService) JoinLobby(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	s.Registry.JoinLobby(userID)
	s.advance()
	return s.state(c, userID)
}

// LeaveLobby removes the user from the lobby and clears their pairing.
func (s *ArenaService) LeaveLobby(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	s.Registry.LeaveLobby(userID)
	s.advance()
	return s.state(c, userID)
}

// GetState returns the user's arena snapshot. Polling this endpoint is
// also what lets a waiting user get matched and an idle game time out.
func (s *ArenaService) GetState(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	s.advance()
	return s.state(c, userID)
}

// PlayColumn applies the user's move.
func (s *ArenaService) PlayColumn(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Column int `json:"column"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	s.advance()

	err := s.Registry.PlayColumn(userID, req.Column)
	switch {
	case err == nil:
		// fall through to settlement below
	case errors.Is(err, game.ErrInvalidColumn):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "column must be between 0 and 6"})
	case errors.Is(err, game.ErrColumnFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "that column is full, pick another"})
	case errors.Is(err, game.ErrNotYourTurn):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "not your turn"})
	case errors.Is(err, game.ErrGameOver):
		// The game may have just ended by forfeit; settle before replying.
		s.settlePending()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is already finished"})
	case errors.Is(err, game.ErrNoActiveMatch):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no active match, join the lobby first"})
	case errors.Is(err, game.ErrMatchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found (state reset), rejoin the lobby"})
	default:
		log.Printf("[ARENA] move failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to apply move"})
	}

	s.settlePending()
	return s.state(c, userID)
}

// Rematch starts a fresh game against the same opponent. PlayerA keeps
// the first move.
func (s *ArenaService) Rematch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	s.advance()

	settled, err := s.Registry.Rematch(userID)
	for _, o := range settled {
		s.applyOutcome(o)
	}
	switch {
	case err == nil:
	case errors.Is(err, game.ErrGameRunning):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "game is still in progress"})
	case errors.Is(err, game.ErrNoActiveMatch):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no active match, join the lobby first"})
	case errors.Is(err, game.ErrMatchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found (state reset), rejoin the lobby"})
	default:
		log.Printf("[ARENA] rematch failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start rematch"})
	}

	return s.state(c, userID)
}

// Requeue abandons the current pairing and goes back to the lobby for
// a new opponent.
func (s *ArenaService) Requeue(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// Settle whatever the user is walking away from first.
	s.settlePending()
	s.Registry.Requeue(userID)
	s.advance()
	return s.state(c, userID)
}
