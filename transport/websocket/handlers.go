package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/ludo-backend/internal/board"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

func (that *Server) handleConnect(_ context.Context, conn *connection, msg *Message) error {
	player := &entity.Player{ID: conn.playerID}

	if err := conn.sendMessage(msg.Action, Payload{Player: player}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleCreateRoom(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleCreateRoom", "playerID", conn.playerID)

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	room, err := that.game.CreateRoom(ctx, payload.RoomID)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	log.Info("room created", "roomID", room.ID)

	if err = conn.sendMessage(msg.Action, Payload{Room: room}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleJoinRoom", "playerID", conn.playerID)

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(conn, msg.Action, "room_id is required")
	}

	// Subscribe first so the joiner receives their own roster update.
	that.subscribe(payload.RoomID, conn.playerID)

	room, err := that.game.JoinRoom(ctx, payload.RoomID, conn.playerID, payload.Name)
	if err != nil {
		that.unsubscribe(payload.RoomID, conn.playerID)
		log.Error("failed to join room", "roomID", payload.RoomID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	log.Info("player joined room", "roomID", room.ID)

	if err = conn.sendMessage(msg.Action, Payload{Room: room}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleLeaveRoom(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleLeaveRoom", "playerID", conn.playerID)

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(conn, msg.Action, "room_id is required")
	}

	// Unsubscribe before the use case broadcasts the roster update, so the
	// leaver does not receive their own departure.
	that.unsubscribe(payload.RoomID, conn.playerID)

	if err = that.game.LeaveRoom(ctx, conn.playerID); err != nil {
		log.Error("failed to leave room", "roomID", payload.RoomID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	log.Info("player left room", "roomID", payload.RoomID)

	if err = conn.sendMessage(msg.Action, Payload{RoomID: payload.RoomID}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleRoomState(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(conn, msg.Action, "room_id is required")
	}

	room, session, err := that.game.RoomState(ctx, payload.RoomID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	// Entry offsets are render-only data the client needs to place tokens on
	// the physical board; movement itself uses the folded numbering.
	if err = conn.sendMessage(msg.Action, Payload{Room: room, Session: session, EntryOffsets: board.EntryOffsets}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleSetReady(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" || payload.Ready == nil {
		return that.sendErrorResponse(conn, msg.Action, "room_id and ready are required")
	}

	if err = that.game.SetReady(ctx, payload.RoomID, conn.playerID, *payload.Ready); err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleStartGame", "playerID", conn.playerID)

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(conn, msg.Action, "room_id is required")
	}

	if err = that.game.StartGame(ctx, payload.RoomID, conn.playerID); err != nil {
		log.Error("failed to start game", "roomID", payload.RoomID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	log.Info("game started", "roomID", payload.RoomID)

	return nil
}

func (that *Server) handleRollDice(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(conn, msg.Action, "room_id is required")
	}

	if err = that.game.RollDice(ctx, payload.RoomID, conn.playerID); err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleMoveToken(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" || payload.TokenID == "" || payload.Steps == nil {
		return that.sendErrorResponse(conn, msg.Action, "room_id, token_id and steps are required")
	}

	if *payload.Steps < board.DiceMin || *payload.Steps > board.DiceMax {
		return that.sendErrorResponse(conn, msg.Action, "steps out of range")
	}

	if err = that.game.MoveToken(ctx, payload.RoomID, conn.playerID, payload.TokenID, *payload.Steps); err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleEndTurn(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(conn, msg.Action, "room_id is required")
	}

	if err = that.game.EndTurn(ctx, payload.RoomID, conn.playerID); err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleSkipTurn(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.RoomID == "" {
		return that.sendErrorResponse(conn, msg.Action, "room_id is required")
	}

	if err = that.game.SkipTurn(ctx, payload.RoomID, conn.playerID); err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return nil
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := conn.sendMessage(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
