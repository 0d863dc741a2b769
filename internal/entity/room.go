package entity

const (
	StatusLobby    = "lobby"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Room is the lightweight registry entity: roster and lifecycle only. The
// live game state lives in the GameSession owned by the session store.
type Room struct {
	ID      string    `json:"id"`
	Status  string    `json:"status"`
	Players []*Player `json:"players,omitempty"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:     id,
		Status: StatusLobby,
	}
}

func (that *Room) IsLobby() bool {
	return that.Status == StatusLobby
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Room) HasPlayer(playerID string) bool {
	for _, player := range that.Players {
		if player.ID == playerID {
			return true
		}
	}
	return false
}

func (that *Room) RemovePlayer(playerID string) {
	for i, player := range that.Players {
		if player.ID == playerID {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			return
		}
	}
}
