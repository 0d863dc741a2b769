package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/event"
	"github.com/rocketscienceinc/ludo-backend/internal/pkg"
)

type gameUseCase interface {
	CreateRoom(ctx context.Context, roomID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, roomID, playerID, name string) (*entity.Room, error)
	SetReady(ctx context.Context, roomID, playerID string, ready bool) error
	StartGame(ctx context.Context, roomID, playerID string) error

	RollDice(ctx context.Context, roomID, playerID string) error
	MoveToken(ctx context.Context, roomID, playerID, tokenID string, steps int) error
	EndTurn(ctx context.Context, roomID, playerID string) error
	SkipTurn(ctx context.Context, roomID, playerID string) error

	RoomState(ctx context.Context, roomID string) (*entity.Room, *entity.GameSession, error)
	LeaveRoom(ctx context.Context, playerID string) error
}

type Server struct {
	logger *slog.Logger
	game   gameUseCase

	handlers map[string]func(ctx context.Context, conn *connection, msg *Message) error

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	roomsMutex sync.RWMutex
	rooms      map[string]map[string]struct{}
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	server := &Server{
		logger: logger,
		game:   game,

		handlers:    make(map[string]func(context.Context, *connection, *Message) error),
		connections: make(map[string]*connection),
		rooms:       make(map[string]map[string]struct{}),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["room:create"] = server.handleCreateRoom
	server.handlers["room:join"] = server.handleJoinRoom
	server.handlers["room:leave"] = server.handleLeaveRoom
	server.handlers["room:state"] = server.handleRoomState
	server.handlers["player:ready"] = server.handleSetReady
	server.handlers["game:start"] = server.handleStartGame
	server.handlers["game:roll"] = server.handleRollDice
	server.handlers["game:move"] = server.handleMoveToken
	server.handlers["game:end-turn"] = server.handleEndTurn
	server.handlers["game:skip"] = server.handleSkipTurn

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // connections are long-lived
		IdleTimeout: 0,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Broadcast - delivers an event to every connected subscriber of a room.
func (that *Server) Broadcast(roomID string, evt event.Event) {
	log := that.logger.With("method", "Broadcast", "roomID", roomID)

	that.roomsMutex.RLock()
	subscribers := make([]string, 0, len(that.rooms[roomID]))
	for playerID := range that.rooms[roomID] {
		subscribers = append(subscribers, playerID)
	}
	that.roomsMutex.RUnlock()

	for _, playerID := range subscribers {
		that.connectionsMutex.RLock()
		conn, ok := that.connections[playerID]
		that.connectionsMutex.RUnlock()

		if !ok {
			continue
		}

		if err := conn.sendMessage(evt.Type, evt.Payload); err != nil {
			log.Error("failed to send event", "playerID", playerID, "error", err)
		}
	}
}

// upgradeToWebSocket - upgrades the connection to WebSocket and binds it to
// an opaque player identity taken from the session cookie.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	playerID := that.sessionID(writer, req)

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	rawConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer rawConn.Close()

	conn := &connection{playerID: playerID, bufrw: bufrw}

	that.connectionsMutex.Lock()
	that.connections[playerID] = conn
	that.connectionsMutex.Unlock()

	log.Info("WebSocket connection established", "playerID", playerID)

	if err = that.handleMessages(ctx, conn); err != nil && !errors.Is(err, errConnectionClosed) {
		log.Error("error handling messages", "error", err)
	}

	that.handleDisconnect(ctx, conn)
}

// handleMessages - processes messages from the client until the connection
// goes away.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages", "playerID", conn.playerID)

	for {
		reqBody, err := readRequest(conn.bufrw)
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// handleDisconnect - unregisters the connection and removes the player from
// their room; remaining subscribers get the roster update.
func (that *Server) handleDisconnect(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleDisconnect", "playerID", conn.playerID)

	that.connectionsMutex.Lock()
	delete(that.connections, conn.playerID)
	that.connectionsMutex.Unlock()

	that.roomsMutex.Lock()
	for roomID, subscribers := range that.rooms {
		if _, ok := subscribers[conn.playerID]; ok {
			delete(subscribers, conn.playerID)
			if len(subscribers) == 0 {
				delete(that.rooms, roomID)
			}
		}
	}
	that.roomsMutex.Unlock()

	if err := that.game.LeaveRoom(ctx, conn.playerID); err != nil {
		log.Error("failed to leave room", "error", err)
	}

	log.Info("player disconnected")
}

func (that *Server) subscribe(roomID, playerID string) {
	that.roomsMutex.Lock()
	defer that.roomsMutex.Unlock()

	if _, ok := that.rooms[roomID]; !ok {
		that.rooms[roomID] = make(map[string]struct{})
	}
	that.rooms[roomID][playerID] = struct{}{}
}

func (that *Server) unsubscribe(roomID, playerID string) {
	that.roomsMutex.Lock()
	defer that.roomsMutex.Unlock()

	if subscribers, ok := that.rooms[roomID]; ok {
		delete(subscribers, playerID)
		if len(subscribers) == 0 {
			delete(that.rooms, roomID)
		}
	}
}

// sessionID - resolves the opaque per-connection identity, issuing a session
// cookie when the client has none.
func (that *Server) sessionID(writer http.ResponseWriter, req *http.Request) string {
	log := that.logger.With("method", "sessionID")

	cookie, err := req.Cookie("user_session")
	if err != nil {
		cookie = &http.Cookie{
			Name:    "user_session",
			Value:   pkg.GenerateNewSessionID(),
			Expires: time.Now().Add(24 * time.Hour),
			Path:    "/ws",
		}
		http.SetCookie(writer, cookie)
		log.Info("session cookie not found, new one created")
	}

	return cookie.Value
}
