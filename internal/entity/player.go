package entity

import "github.com/rocketscienceinc/ludo-backend/internal/board"

type Player struct {
	ID     string      `json:"id"`
	Name   string      `json:"name,omitempty"`
	Color  board.Color `json:"color,omitempty"`
	Ready  bool        `json:"ready"`
	RoomID string      `json:"room_id,omitempty"`
}
