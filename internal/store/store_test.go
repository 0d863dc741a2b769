package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

func TestSessionStore_CreateSession(t *testing.T) {
	sessions := New()

	// When: a session is created
	session, err := sessions.CreateSession("42")
	require.NoError(t, err)
	require.Equal(t, "42", session.RoomID)

	// Then: creating it again is refused
	_, err = sessions.CreateSession("42")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrRoomAlreadyExists)

	// Then: lookup returns the same session
	found, err := sessions.GetSession("42")
	require.NoError(t, err)
	require.Same(t, session, found)
}

func TestSessionStore_GetSession_NotFound(t *testing.T) {
	sessions := New()

	_, err := sessions.GetSession("missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestSessionStore_AddPlayer(t *testing.T) {
	sessions := New()
	_, err := sessions.CreateSession("42")
	require.NoError(t, err)

	// When: a player is added twice
	require.NoError(t, sessions.AddPlayer("42", &entity.Player{ID: "a"}))
	require.NoError(t, sessions.AddPlayer("42", &entity.Player{ID: "a"}))

	// Then: they are seated once with four tokens
	session, err := sessions.GetSession("42")
	require.NoError(t, err)
	require.Len(t, session.Players, 1)
	require.Len(t, session.Tokens["a"], 4)

	// Then: adding to a missing room fails
	err = sessions.AddPlayer("missing", &entity.Player{ID: "b"})
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestSessionStore_RemovePlayer(t *testing.T) {
	t.Run("Lobby session with no players is retained", func(t *testing.T) {
		sessions := New()
		_, err := sessions.CreateSession("42")
		require.NoError(t, err)
		require.NoError(t, sessions.AddPlayer("42", &entity.Player{ID: "a"}))

		// When: the last player leaves before the game started
		deleted, err := sessions.RemovePlayer("42", "a")
		require.NoError(t, err)

		// Then: the session survives in lobby state
		require.False(t, deleted)
		_, err = sessions.GetSession("42")
		require.NoError(t, err)
	})

	t.Run("Started session with no players is deleted", func(t *testing.T) {
		sessions := New()
		session, err := sessions.CreateSession("42")
		require.NoError(t, err)
		require.NoError(t, sessions.AddPlayer("42", &entity.Player{ID: "a"}))
		session.Started = true

		// When: the last player leaves after the game started
		deleted, err := sessions.RemovePlayer("42", "a")
		require.NoError(t, err)

		// Then: the session is gone
		require.True(t, deleted)
		_, err = sessions.GetSession("42")
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestSessionStore_DeleteSession(t *testing.T) {
	sessions := New()
	_, err := sessions.CreateSession("42")
	require.NoError(t, err)
	require.Equal(t, 1, sessions.Count())

	sessions.DeleteSession("42")

	require.Equal(t, 0, sessions.Count())
	_, err = sessions.GetSession("42")
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}
