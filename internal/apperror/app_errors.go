package apperror

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrRoomFull          = errors.New("room is full")
	ErrNoColorAvailable  = errors.New("no color available")

	ErrGameAlreadyStarted = errors.New("game is already started")
	ErrGameFinished       = errors.New("game is already finished")
	ErrNotEnoughPlayers   = errors.New("not enough players")
	ErrPlayersNotReady    = errors.New("not all players are ready")

	ErrPlayerNotFound = errors.New("player not found")
)
