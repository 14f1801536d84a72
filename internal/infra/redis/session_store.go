package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
)

// SessionStore keeps games as JSON documents in Redis.
// Keys:
//   - game:session:{sessionID}      -> session JSON
//   - game:player:{playerID}:active -> sessionID of the game in progress
//
// Both keys are written in one MULTI/EXEC so a failed save leaves the
// previous state intact.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (*game.Session, error) {
	raw, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session game.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("corrupt session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *game.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	activeKey := s.activeKey(session.PlayerID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.sessionKey(session.ID), data, s.ttl)
		if session.Finished() {
			pipe.Del(ctx, activeKey)
		} else {
			pipe.Set(ctx, activeKey, session.ID, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) ActiveSessionID(ctx context.Context, playerID string) (string, error) {
	id, err := s.client.Get(ctx, s.activeKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("active session: %w", err)
	}
	return id, nil
}

func (s *SessionStore) sessionKey(sessionID string) string {
	return "game:session:" + sessionID
}

func (s *SessionStore) activeKey(playerID string) string {
	return "game:player:" + playerID + ":active"
}
