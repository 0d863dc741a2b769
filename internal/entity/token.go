package entity

import (
	"github.com/google/uuid"

	"github.com/rocketscienceinc/ludo-backend/internal/board"
)

// Token is a single playing piece. Its ID is stable for the session
// lifetime; Position only ever increases or resets to home on capture.
type Token struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

func NewToken() *Token {
	return &Token{
		ID:       uuid.NewString(),
		Position: board.HomePosition,
	}
}

func (that *Token) IsAtHome() bool {
	return that.Position == board.HomePosition
}

func (that *Token) IsAtGoal() bool {
	return that.Position == board.Goal
}
