package ludo

import (
	"math/rand"

	"github.com/rocketscienceinc/ludo-backend/internal/board"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

// RollDice - rolls a uniform die for the session's current player. Legality
// of using the value is enforced by the move operations; turn ownership is
// checked by the caller.
func RollDice(session *entity.GameSession) int {
	value := rand.Intn(board.DiceMax) + board.DiceMin //nolint: gosec // it's ok

	session.LastDiceRoll = &value
	session.CanRollAgain = value == board.EntryRoll

	return value
}

// MoveToken - applies a move of steps cells for one token and resolves
// entry, bounce, capture and win arbitration. Expected failures come back as
// a result value, never an error.
func MoveToken(session *entity.GameSession, playerID, tokenID string, steps int) MoveResult {
	token := session.TokenByID(playerID, tokenID)
	if token == nil {
		return MoveResult{}
	}

	if token.IsAtHome() {
		return enterFromHome(session, playerID, token)
	}

	if token.IsAtGoal() {
		return MoveResult{}
	}

	newPosition := token.Position + steps

	if board.OnPerimeter(token.Position) && newPosition > board.Goal {
		// Reflect the excess back from the goal.
		newPosition = board.Goal - (newPosition - board.Goal)
		if newPosition < board.FinalPathStart {
			return MoveResult{NeedsExactRoll: true}
		}
	} else if token.Position >= board.FinalPathStart && newPosition > board.Goal {
		// No bounce inside the final path, the roll must fit exactly.
		return MoveResult{NeedsExactRoll: true}
	}

	if newPosition == board.Goal {
		token.Position = board.Goal

		if session.HasWon(playerID) {
			return MoveResult{Success: true, HasWon: true}
		}

		return MoveResult{Success: true, ReachedEnd: true}
	}

	token.Position = newPosition

	result := MoveResult{Success: true}
	if board.OnPerimeter(newPosition) {
		result.CapturedTokens = captureAt(session, playerID, newPosition)
	}

	return result
}

// enterFromHome - brings a home token onto the perimeter entry cell; only a
// six opens the door.
func enterFromHome(session *entity.GameSession, playerID string, token *entity.Token) MoveResult {
	if session.LastDiceRoll == nil || *session.LastDiceRoll != board.EntryRoll {
		return MoveResult{}
	}

	token.Position = 0

	return MoveResult{
		Success:        true,
		CapturedTokens: captureAt(session, playerID, 0),
	}
}

// CanMakeValidMove - reports whether at least one of the player's tokens is
// legally movable with diceValue. Used by the orchestration layer to decide
// auto-skips.
func CanMakeValidMove(session *entity.GameSession, playerID string, diceValue int) bool {
	for _, token := range session.Tokens[playerID] {
		if token.IsAtHome() {
			if diceValue == board.EntryRoll {
				return true
			}
			continue
		}

		if token.IsAtGoal() {
			continue
		}

		newPosition := token.Position + diceValue

		if board.OnPerimeter(token.Position) && newPosition > board.Goal {
			if board.Goal-(newPosition-board.Goal) >= board.FinalPathStart {
				return true
			}
			continue
		}

		if token.Position >= board.FinalPathStart && newPosition > board.Goal {
			continue
		}

		return true
	}

	return false
}

// captureAt - returns every opposing token sitting on landing to home,
// unless landing is a safe square. A player's own tokens are never captured.
func captureAt(session *entity.GameSession, moverID string, landing int) []CapturedToken {
	if board.IsSafeSquare(landing) {
		return nil
	}

	var captured []CapturedToken

	// Seating order keeps the capture list deterministic.
	for _, player := range session.Players {
		if player.ID == moverID {
			continue
		}

		for _, token := range session.Tokens[player.ID] {
			if token.Position != landing {
				continue
			}

			token.Position = board.HomePosition
			captured = append(captured, CapturedToken{
				PlayerID: player.ID,
				TokenID:  token.ID,
			})
		}
	}

	return captured
}
