package session

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "assistant-chatbot/internal/common/errors"
	"assistant-chatbot/internal/models"
)

const redisKeyPrefix = "chatbot:session:"

// RedisStore persists sessions as JSON under a TTL so abandoned conversations
// expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (s *RedisStore) Save(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return stderrors.NewSessionStoreFailedError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, redisKey(session.ID), data, s.ttl).Err(); err != nil {
		return stderrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (s *RedisStore) Load(sessionID string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, redisKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, stderrors.NewSessionStoreFailedError(err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, stderrors.NewSessionStoreFailedError(err)
	}
	return &session, nil
}

func (s *RedisStore) Delete(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return stderrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (s *RedisStore) ListIDs() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	keys, err := s.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return nil, stderrors.NewSessionStoreFailedError(err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, redisKeyPrefix))
	}
	return ids, nil
}
