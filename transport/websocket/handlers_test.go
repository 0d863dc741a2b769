package websocket

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/board"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

type fakeGame struct {
	room    *entity.Room
	session *entity.GameSession
}

func (that *fakeGame) CreateRoom(_ context.Context, roomID string) (*entity.Room, error) {
	return entity.NewRoom(roomID), nil
}

func (that *fakeGame) JoinRoom(_ context.Context, _, _, _ string) (*entity.Room, error) {
	return that.room, nil
}

func (that *fakeGame) SetReady(_ context.Context, _, _ string, _ bool) error { return nil }

func (that *fakeGame) StartGame(_ context.Context, _, _ string) error { return nil }

func (that *fakeGame) RollDice(_ context.Context, _, _ string) error { return nil }

func (that *fakeGame) MoveToken(_ context.Context, _, _, _ string, _ int) error { return nil }

func (that *fakeGame) EndTurn(_ context.Context, _, _ string) error { return nil }

func (that *fakeGame) SkipTurn(_ context.Context, _, _ string) error { return nil }

func (that *fakeGame) RoomState(_ context.Context, _ string) (*entity.Room, *entity.GameSession, error) {
	return that.room, that.session, nil
}

func (that *fakeGame) LeaveRoom(_ context.Context, _ string) error { return nil }

// newTestConnection backs a connection with an in-memory writer so the frames
// a handler sends can be decoded and inspected.
func newTestConnection(out *bytes.Buffer) *connection {
	return &connection{
		playerID: "p1",
		bufrw:    bufio.NewReadWriter(bufio.NewReader(&bytes.Buffer{}), bufio.NewWriter(out)),
	}
}

// decodeFrame strips the server-side frame header and returns the payload.
func decodeFrame(t *testing.T, raw []byte) []byte {
	t.Helper()

	require.GreaterOrEqual(t, len(raw), 2)

	length := uint64(raw[1] & 0x7f)
	offset := 2

	switch length {
	case 126:
		length = uint64(binary.BigEndian.Uint16(raw[2:4]))
		offset = 4
	case 127:
		length = binary.BigEndian.Uint64(raw[2:10])
		offset = 10
	}

	require.Len(t, raw, offset+int(length))

	return raw[offset:]
}

func decodeResponse(t *testing.T, out *bytes.Buffer) *Payload {
	t.Helper()

	var message Message
	require.NoError(t, json.Unmarshal(decodeFrame(t, out.Bytes()), &message))

	var payload Payload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return &payload
}

func TestHandleRoomState(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Carries room, session and entry offsets", func(t *testing.T) {
		// Given: a room with a live session
		room := entity.NewRoom("42")
		session := entity.NewGameSession("42")
		session.AddPlayer(&entity.Player{ID: "p1", Color: board.ColorRed})

		server := New(logger, &fakeGame{room: room, session: session})

		var out bytes.Buffer
		conn := newTestConnection(&out)

		// When: the state is queried
		err := server.handleRoomState(context.Background(), conn, &Message{
			Action:  "room:state",
			Payload: json.RawMessage(`{"room_id":"42"}`),
		})
		require.NoError(t, err)

		// Then: the response carries the full state plus the render data a
		// client needs to place tokens on the physical board
		payload := decodeResponse(t, &out)
		require.NotNil(t, payload.Room)
		assert.Equal(t, "42", payload.Room.ID)
		require.NotNil(t, payload.Session)
		require.Len(t, payload.EntryOffsets, board.MaxPlayers)
		assert.Equal(t, 0, payload.EntryOffsets[board.ColorRed])
		assert.Equal(t, 13, payload.EntryOffsets[board.ColorBlue])
		assert.Equal(t, 26, payload.EntryOffsets[board.ColorGreen])
		assert.Equal(t, 39, payload.EntryOffsets[board.ColorYellow])
	})

	t.Run("Missing room id is rejected at the boundary", func(t *testing.T) {
		server := New(logger, &fakeGame{})

		var out bytes.Buffer
		conn := newTestConnection(&out)

		err := server.handleRoomState(context.Background(), conn, &Message{Action: "room:state"})
		require.NoError(t, err)

		payload := decodeResponse(t, &out)
		assert.Equal(t, "room_id is required", payload.Error)
	})
}
