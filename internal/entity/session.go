package entity

import (
	"sync"

	"github.com/rocketscienceinc/ludo-backend/internal/board"
)

// GameSession is the live per-room game state: seating order, dice, tokens
// and turn ownership. All mutation happens under the session lock; the store
// hands out sessions, callers lock them.
type GameSession struct {
	RoomID             string              `json:"room_id"`
	Players            []*Player           `json:"players"`
	CurrentPlayerIndex int                 `json:"current_player_index"`
	LastDiceRoll       *int                `json:"last_dice_roll,omitempty"`
	CanRollAgain       bool                `json:"can_roll_again"`
	Tokens             map[string][]*Token `json:"tokens"`
	Started            bool                `json:"started"`

	mu sync.Mutex
}

func NewGameSession(roomID string) *GameSession {
	return &GameSession{
		RoomID: roomID,
		Tokens: make(map[string][]*Token),
	}
}

func (that *GameSession) Lock()   { that.mu.Lock() }
func (that *GameSession) Unlock() { that.mu.Unlock() }

// AddPlayer seats a player and allocates their four home tokens. Adding an
// already-seated player is a no-op.
func (that *GameSession) AddPlayer(player *Player) {
	for _, seated := range that.Players {
		if seated.ID == player.ID {
			return
		}
	}

	that.Players = append(that.Players, player)

	tokens := make([]*Token, 0, board.TokensPerPlayer)
	for i := 0; i < board.TokensPerPlayer; i++ {
		tokens = append(tokens, NewToken())
	}
	that.Tokens[player.ID] = tokens
}

// RemovePlayer unseats a player and drops their tokens, keeping
// CurrentPlayerIndex valid for the remaining seating order.
func (that *GameSession) RemovePlayer(playerID string) {
	for i, seated := range that.Players {
		if seated.ID != playerID {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)
		delete(that.Tokens, playerID)

		if len(that.Players) == 0 {
			that.CurrentPlayerIndex = 0
			return
		}

		if i < that.CurrentPlayerIndex {
			that.CurrentPlayerIndex--
		}
		that.CurrentPlayerIndex %= len(that.Players)

		return
	}
}

func (that *GameSession) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *GameSession) CurrentPlayer() *Player {
	if len(that.Players) == 0 {
		return nil
	}
	return that.Players[that.CurrentPlayerIndex]
}

// IsPlayersTurn reports whether playerID holds turn ownership.
func (that *GameSession) IsPlayersTurn(playerID string) bool {
	current := that.CurrentPlayer()
	return current != nil && current.ID == playerID
}

// AdvanceTurn hands turn ownership to the next seated player, wrapping
// modulo the player count, and clears the dice state.
func (that *GameSession) AdvanceTurn() *Player {
	if len(that.Players) == 0 {
		return nil
	}

	that.CurrentPlayerIndex = (that.CurrentPlayerIndex + 1) % len(that.Players)
	that.LastDiceRoll = nil
	that.CanRollAgain = false

	return that.CurrentPlayer()
}

// ConsumeRoll clears the pending dice value once a move has used it.
func (that *GameSession) ConsumeRoll() {
	that.LastDiceRoll = nil
}

func (that *GameSession) TokenByID(playerID, tokenID string) *Token {
	for _, token := range that.Tokens[playerID] {
		if token.ID == tokenID {
			return token
		}
	}
	return nil
}

// Snapshot returns a copy of the session that is safe to marshal without
// holding the session lock. Callers must not hold the lock.
func (that *GameSession) Snapshot() *GameSession {
	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot := &GameSession{
		RoomID:             that.RoomID,
		CurrentPlayerIndex: that.CurrentPlayerIndex,
		CanRollAgain:       that.CanRollAgain,
		Started:            that.Started,
		Players:            append([]*Player(nil), that.Players...),
		Tokens:             make(map[string][]*Token, len(that.Tokens)),
	}

	if that.LastDiceRoll != nil {
		value := *that.LastDiceRoll
		snapshot.LastDiceRoll = &value
	}

	for playerID, tokens := range that.Tokens {
		copied := make([]*Token, 0, len(tokens))
		for _, token := range tokens {
			clone := *token
			copied = append(copied, &clone)
		}
		snapshot.Tokens[playerID] = copied
	}

	return snapshot
}

// HasWon reports whether all of a player's tokens have reached the goal.
func (that *GameSession) HasWon(playerID string) bool {
	tokens := that.Tokens[playerID]
	if len(tokens) == 0 {
		return false
	}

	for _, token := range tokens {
		if !token.IsAtGoal() {
			return false
		}
	}
	return true
}
