package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

type RoomRepository interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func (that *dbRoom) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	roomKey := "room:" + room.ID
	err = that.client.Set(ctx, roomKey, roomJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	roomKey := "room:" + id

	response, err := that.client.Get(ctx, roomKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: id %s", apperror.ErrRoomNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal([]byte(response), &existingRoom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *dbRoom) DeleteByID(ctx context.Context, id string) error {
	roomKey := "room:" + id

	if err := that.client.Del(ctx, roomKey).Err(); err != nil {
		return fmt.Errorf("failed to delete room by ID: %w", err)
	}

	return nil
}
