package store

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

// SessionStore holds every live game session keyed by room id. The store
// mutex guards the map only; each session carries its own lock for state
// mutation.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.GameSession
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entity.GameSession),
	}
}

// CreateSession - registers a fresh session for the room; creating an
// already-existing session is refused without side effects.
func (that *SessionStore) CreateSession(roomID string) (*entity.GameSession, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[roomID]; ok {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrRoomAlreadyExists, roomID)
	}

	session := entity.NewGameSession(roomID)
	that.sessions[roomID] = session

	return session, nil
}

func (that *SessionStore) GetSession(roomID string) (*entity.GameSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrRoomNotFound, roomID)
	}

	return session, nil
}

// AddPlayer - seats the player in the room's session and allocates their
// home tokens. Idempotent per player id.
func (that *SessionStore) AddPlayer(roomID string, player *entity.Player) error {
	session, err := that.GetSession(roomID)
	if err != nil {
		return err
	}

	session.Lock()
	defer session.Unlock()

	session.AddPlayer(player)

	return nil
}

// RemovePlayer - unseats the player. A started session that becomes empty is
// deleted; a lobby session with no players is retained. Reports whether the
// session was deleted.
func (that *SessionStore) RemovePlayer(roomID, playerID string) (bool, error) {
	session, err := that.GetSession(roomID)
	if err != nil {
		return false, err
	}

	session.Lock()
	session.RemovePlayer(playerID)
	empty, started := session.IsEmpty(), session.Started
	session.Unlock()

	if empty && started {
		that.DeleteSession(roomID)
		return true, nil
	}

	return false, nil
}

// Count reports the number of live sessions.
func (that *SessionStore) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *SessionStore) DeleteSession(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, roomID)
}
