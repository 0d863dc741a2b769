package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/board"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/event"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/pkg"
	"github.com/rocketscienceinc/ludo-backend/internal/scheduler"
	"github.com/rocketscienceinc/ludo-backend/internal/store"
)

// Broadcaster delivers an event to every subscriber of a room. The websocket
// transport implements it; the manager never talks to connections directly.
type Broadcaster interface {
	Broadcast(roomID string, evt event.Event)
}

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager orchestrates rooms, live sessions, the engine and the turn
// scheduler. Turn ownership is checked here: an action by anyone but the
// current player is a silent no-op, not an error.
type GameManager struct {
	logger *slog.Logger

	roomRepo   roomRepo
	playerRepo playerRepo
	sessions   *store.SessionStore
	scheduler  *scheduler.TurnScheduler

	broadcaster Broadcaster
}

func NewGameManager(logger *slog.Logger, roomRepo roomRepo, playerRepo playerRepo, sessions *store.SessionStore, sched *scheduler.TurnScheduler) *GameManager {
	manager := &GameManager{
		logger: logger,

		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		sessions:   sessions,
		scheduler:  sched,
	}

	sched.SetCallback(manager.handleTurnTimeout)

	return manager
}

// SetBroadcaster installs the outbound side; wired by the application after
// the transport is constructed.
func (that *GameManager) SetBroadcaster(b Broadcaster) {
	that.broadcaster = b
}

// CreateRoom - creates a room and its (lobby) session. An empty id gets a
// generated one. Creating an existing room is refused without side effects.
func (that *GameManager) CreateRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	if roomID == "" {
		roomID = pkg.GenerateRoomID()
	}

	if _, err := that.roomRepo.GetByID(ctx, roomID); err == nil {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrRoomAlreadyExists, roomID)
	}

	if _, err := that.sessions.CreateSession(roomID); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	room := entity.NewRoom(roomID)
	if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		that.sessions.DeleteSession(roomID)
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

// JoinRoom - seats a player in a lobby room, assigning the first free color.
// A full room or a room without a free color refuses the join with no
// partial state created.
func (that *GameManager) JoinRoom(ctx context.Context, roomID, playerID, name string) (*entity.Room, error) {
	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if room.HasPlayer(playerID) {
		return room, nil
	}

	if room.IsFinished() {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrGameFinished, roomID)
	}

	if !room.IsLobby() {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrGameAlreadyStarted, roomID)
	}

	if len(room.Players) >= board.MaxPlayers {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrRoomFull, roomID)
	}

	color, err := freeColor(room)
	if err != nil {
		return nil, err
	}

	player := &entity.Player{
		ID:     playerID,
		Name:   name,
		Color:  color,
		RoomID: roomID,
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	room.Players = append(room.Players, player)
	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	if err = that.sessions.AddPlayer(roomID, player); err != nil {
		return nil, fmt.Errorf("failed to seat player: %w", err)
	}

	that.broadcast(roomID, event.Event{Type: event.TypeRoomUpdate, Payload: event.RoomUpdate{Room: room}})

	return room, nil
}

// SetReady - flips a player's ready flag and refreshes the roster.
func (that *GameManager) SetReady(ctx context.Context, roomID, playerID string, ready bool) error {
	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	var found *entity.Player
	for _, player := range room.Players {
		if player.ID == playerID {
			found = player
			break
		}
	}

	if found == nil {
		return fmt.Errorf("%w: id %s", apperror.ErrPlayerNotFound, playerID)
	}

	found.Ready = ready

	if err = that.playerRepo.CreateOrUpdate(ctx, found); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcast(roomID, event.Event{Type: event.TypeRoomUpdate, Payload: event.RoomUpdate{Room: room}})

	return nil
}

// StartGame - transitions lobby → playing: at least two seated players, all
// ready. Arms the turn timer and announces the first player.
func (that *GameManager) StartGame(ctx context.Context, roomID, playerID string) error {
	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if !room.HasPlayer(playerID) {
		return fmt.Errorf("%w: id %s", apperror.ErrPlayerNotFound, playerID)
	}

	if room.IsFinished() {
		return fmt.Errorf("%w: room id %s", apperror.ErrGameFinished, roomID)
	}

	if !room.IsLobby() {
		return fmt.Errorf("%w: room id %s", apperror.ErrGameAlreadyStarted, roomID)
	}

	if len(room.Players) < 2 {
		return fmt.Errorf("%w: room id %s", apperror.ErrNotEnoughPlayers, roomID)
	}

	for _, player := range room.Players {
		if !player.Ready {
			return fmt.Errorf("%w: room id %s", apperror.ErrPlayersNotReady, roomID)
		}
	}

	session, err := that.sessions.GetSession(roomID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Lock()
	session.Started = true
	session.CurrentPlayerIndex = 0
	current := session.CurrentPlayer()
	session.Unlock()

	room.Status = entity.StatusPlaying
	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.scheduler.Arm(roomID)

	that.broadcast(roomID, event.Event{Type: event.TypeGameStarted, Payload: event.GameStarted{
		RoomID:        roomID,
		CurrentPlayer: current,
	}})

	return nil
}

// RollDice - rolls for the current player. If the value opens no legal move
// the turn auto-advances immediately and the advancement is flagged as a
// skip.
func (that *GameManager) RollDice(_ context.Context, roomID, playerID string) error {
	session, err := that.sessions.GetSession(roomID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Lock()

	if !session.Started || !session.IsPlayersTurn(playerID) {
		session.Unlock()
		return nil
	}

	value := ludo.RollDice(session)
	rollAgain := session.CanRollAgain

	var next *entity.Player
	if !ludo.CanMakeValidMove(session, playerID, value) {
		next = session.AdvanceTurn()
	}

	session.Unlock()

	that.scheduler.Arm(roomID)

	that.broadcast(roomID, event.Event{Type: event.TypeDiceRolled, Payload: event.DiceRolled{
		PlayerID:  playerID,
		Value:     value,
		RollAgain: rollAgain,
	}})

	if next != nil {
		that.broadcast(roomID, event.Event{Type: event.TypeTurnAdvanced, Payload: event.TurnAdvanced{
			PlayerID: next.ID,
			AutoSkip: true,
		}})
	}

	return nil
}

// MoveToken - validates and applies a move of the current player's token
// with the pending roll, then resolves turn retention: a six keeps the turn,
// anything else hands it over. An overshoot rejection also advances the turn.
func (that *GameManager) MoveToken(ctx context.Context, roomID, playerID, tokenID string, steps int) error {
	session, err := that.sessions.GetSession(roomID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Lock()

	if !session.Started || !session.IsPlayersTurn(playerID) {
		session.Unlock()
		return nil
	}

	if session.LastDiceRoll == nil {
		session.Unlock()
		that.rejectMove(roomID, playerID, event.ReasonDiceNotRolled)
		return nil
	}

	if steps != *session.LastDiceRoll {
		session.Unlock()
		that.rejectMove(roomID, playerID, event.ReasonWrongSteps)
		return nil
	}

	result := ludo.MoveToken(session, playerID, tokenID, steps)

	if result.NeedsExactRoll {
		next := session.AdvanceTurn()
		session.Unlock()

		that.rejectMove(roomID, playerID, event.ReasonNeedsExactRoll)
		that.scheduler.Arm(roomID)
		that.broadcast(roomID, event.Event{Type: event.TypeTurnAdvanced, Payload: event.TurnAdvanced{PlayerID: next.ID}})

		return nil
	}

	if !result.Success {
		reason := event.ReasonIllegalMove
		if session.TokenByID(playerID, tokenID) == nil {
			reason = event.ReasonUnknownToken
		}
		session.Unlock()

		that.rejectMove(roomID, playerID, reason)

		return nil
	}

	session.ConsumeRoll()

	token := session.TokenByID(playerID, tokenID)
	position := token.Position
	rollAgain := session.CanRollAgain

	var next *entity.Player
	switch {
	case result.HasWon:
		// Winning freezes the session; no further actions mutate it.
		session.Started = false
	case !rollAgain:
		next = session.AdvanceTurn()
	}

	session.Unlock()

	that.broadcast(roomID, event.Event{Type: event.TypeTokenMoved, Payload: event.TokenMoved{
		PlayerID:   playerID,
		TokenID:    tokenID,
		Position:   position,
		Captured:   result.CapturedTokens,
		ReachedEnd: result.ReachedEnd,
	}})

	for _, captured := range result.CapturedTokens {
		that.broadcast(roomID, event.Event{Type: event.TypeTokenCaptured, Payload: event.TokenCaptured{
			PlayerID: captured.PlayerID,
			TokenID:  captured.TokenID,
		}})
	}

	if result.HasWon {
		return that.finishGame(ctx, roomID, playerID)
	}

	that.scheduler.Arm(roomID)

	if next != nil {
		that.broadcast(roomID, event.Event{Type: event.TypeTurnAdvanced, Payload: event.TurnAdvanced{PlayerID: next.ID}})
	}

	return nil
}

// EndTurn - voluntary turn handover by the current player.
func (that *GameManager) EndTurn(_ context.Context, roomID, playerID string) error {
	return that.advanceTurn(roomID, playerID, false)
}

// SkipTurn - the current player passes without moving.
func (that *GameManager) SkipTurn(_ context.Context, roomID, playerID string) error {
	return that.advanceTurn(roomID, playerID, true)
}

func (that *GameManager) advanceTurn(roomID, playerID string, skip bool) error {
	session, err := that.sessions.GetSession(roomID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Lock()

	if !session.Started || !session.IsPlayersTurn(playerID) {
		session.Unlock()
		return nil
	}

	next := session.AdvanceTurn()
	session.Unlock()

	that.scheduler.Arm(roomID)

	that.broadcast(roomID, event.Event{Type: event.TypeTurnAdvanced, Payload: event.TurnAdvanced{
		PlayerID: next.ID,
		AutoSkip: skip,
	}})

	return nil
}

// RoomState - full room + session snapshot, for reconnects and UI sync.
func (that *GameManager) RoomState(ctx context.Context, roomID string) (*entity.Room, *entity.GameSession, error) {
	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get room: %w", err)
	}

	session, err := that.sessions.GetSession(roomID)
	if err != nil {
		return room, nil, nil
	}

	return room, session.Snapshot(), nil
}

// LeaveRoom - removes a player from room and session. A started session that
// becomes empty is torn down together with its timer and room; a lobby room
// is retained.
func (that *GameManager) LeaveRoom(ctx context.Context, playerID string) error {
	log := that.logger.With("method", "LeaveRoom")

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, apperror.ErrPlayerNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get player: %w", err)
	}

	roomID := player.RoomID
	if roomID == "" {
		return nil
	}

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	var wasCurrent bool
	if session, sErr := that.sessions.GetSession(roomID); sErr == nil {
		session.Lock()
		wasCurrent = session.Started && session.IsPlayersTurn(playerID)
		session.Unlock()
	}

	sessionDeleted, err := that.sessions.RemovePlayer(roomID, playerID)
	if err != nil && !errors.Is(err, apperror.ErrRoomNotFound) {
		return fmt.Errorf("failed to unseat player: %w", err)
	}

	room.RemovePlayer(playerID)

	player.RoomID = ""
	player.Ready = false
	player.Color = ""
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		log.Error("failed to update player", "error", err)
	}

	if sessionDeleted {
		that.scheduler.Cancel(roomID)

		if err = that.roomRepo.DeleteByID(ctx, roomID); err != nil {
			log.Error("failed to delete room", "error", err)
		}

		log.Info("room torn down", "roomID", roomID)

		return nil
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcast(roomID, event.Event{Type: event.TypeRoomUpdate, Payload: event.RoomUpdate{Room: room}})

	if wasCurrent {
		if session, sErr := that.sessions.GetSession(roomID); sErr == nil {
			session.Lock()
			current := session.CurrentPlayer()
			session.Unlock()

			if current != nil {
				that.scheduler.Arm(roomID)
				that.broadcast(roomID, event.Event{Type: event.TypeTurnAdvanced, Payload: event.TurnAdvanced{PlayerID: current.ID}})
			}
		}
	}

	return nil
}

// DeleteRoom - explicit teardown of a room, its session and its timer.
func (that *GameManager) DeleteRoom(ctx context.Context, roomID string) error {
	that.scheduler.Cancel(roomID)
	that.sessions.DeleteSession(roomID)

	if err := that.roomRepo.DeleteByID(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// handleTurnTimeout fires on the scheduler goroutine after the inactivity
// window. It takes the same session lock as client-driven mutation.
func (that *GameManager) handleTurnTimeout(roomID string) {
	log := that.logger.With("method", "handleTurnTimeout", "roomID", roomID)

	session, err := that.sessions.GetSession(roomID)
	if err != nil {
		return
	}

	session.Lock()

	if session.IsEmpty() {
		session.Unlock()
		that.sessions.DeleteSession(roomID)
		log.Info("empty session deleted on timeout")
		return
	}

	if !session.Started {
		session.Unlock()
		return
	}

	next := session.AdvanceTurn()
	session.Unlock()

	that.scheduler.Arm(roomID)

	log.Info("turn force-advanced", "next", next.ID)

	that.broadcast(roomID, event.Event{Type: event.TypeTurnAdvanced, Payload: event.TurnAdvanced{
		PlayerID: next.ID,
		Timeout:  true,
	}})
}

// finishGame marks the room finished and stops the timer; the session stays
// readable for final state queries.
func (that *GameManager) finishGame(ctx context.Context, roomID, winnerID string) error {
	that.scheduler.Cancel(roomID)

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	room.Status = entity.StatusFinished
	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcast(roomID, event.Event{Type: event.TypePlayerWon, Payload: event.PlayerWon{PlayerID: winnerID}})

	return nil
}

func (that *GameManager) rejectMove(roomID, playerID, reason string) {
	that.broadcast(roomID, event.Event{Type: event.TypeMoveRejected, Payload: event.MoveRejected{
		PlayerID: playerID,
		Reason:   reason,
	}})
}

func (that *GameManager) broadcast(roomID string, evt event.Event) {
	if that.broadcaster == nil {
		return
	}
	that.broadcaster.Broadcast(roomID, evt)
}

func freeColor(room *entity.Room) (board.Color, error) {
	taken := make(map[board.Color]bool, len(room.Players))
	for _, player := range room.Players {
		taken[player.Color] = true
	}

	for _, color := range board.Colors {
		if !taken[color] {
			return color, nil
		}
	}

	return "", fmt.Errorf("%w: room id %s", apperror.ErrNoColorAvailable, room.ID)
}
