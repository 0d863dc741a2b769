package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/board"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player with ID, name and color
	player := &entity.Player{
		ID:    "123",
		Name:  "alice",
		Color: board.ColorRed,
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and player is stored
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a stored player
		player := &entity.Player{
			ID:     "123",
			Name:   "alice",
			Color:  board.ColorBlue,
			RoomID: "42",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player should match the saved player
		require.NoError(t, err)
		require.Equal(t, player.ID, retrievedPlayer.ID)
		require.Equal(t, player.Name, retrievedPlayer.Name)
		require.Equal(t, player.Color, retrievedPlayer.Color)
		require.Equal(t, player.RoomID, retrievedPlayer.RoomID)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		_, err := playerRepo.GetByID(ctx, "9999999")

		// Then: the not-found sentinel should be returned
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrPlayerNotFound)
	})
}

func TestPlayerRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a stored player
	player := &entity.Player{ID: "123"}
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

	// When: DeleteByID is called
	err := playerRepo.DeleteByID(ctx, player.ID)
	require.NoError(t, err)

	// Then: the player can no longer be found
	_, err = playerRepo.GetByID(ctx, player.ID)
	assert.ErrorIs(t, err, apperror.ErrPlayerNotFound)
}
