// Package session stores server-side login sessions so tokens can be revoked.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/model"
	"backoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound means the session is unknown, expired or revoked.
var ErrNotFound = errors.New("session not found")

// Store keeps session id to account id mappings.
type Store interface {
	Create(ctx context.Context, accountID uuid.UUID, ttl time.Duration) (uuid.UUID, error)
	Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
	Revoke(ctx context.Context, sessionID uuid.UUID) error
}

// RedisStore keeps sessions as expiring keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "backoffice:session:"}
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

func (s *RedisStore) Create(ctx context.Context, accountID uuid.UUID, ttl time.Duration) (uuid.UUID, error) {
	id := uuid.New()
	if err := s.client.Set(ctx, s.key(id), accountID.String(), ttl).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	accountID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return accountID, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// DBStore keeps sessions in the sessions table.
type DBStore struct {
	repo repository.SessionRepository
	now  func() time.Time
}

func NewDBStore(repo repository.SessionRepository) *DBStore {
	return &DBStore{repo: repo, now: time.Now}
}

func (s *DBStore) Create(ctx context.Context, accountID uuid.UUID, ttl time.Duration) (uuid.UUID, error) {
	sess := &model.Session{ID: uuid.New(), AccountID: accountID, ExpiresAt: s.now().Add(ttl)}
	if err := s.repo.Create(ctx, sess); err != nil {
		return uuid.Nil, fmt.Errorf("store session: %w", err)
	}
	return sess.ID, nil
}

func (s *DBStore) Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	sess, err := s.repo.FindActive(ctx, sessionID, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	return sess.AccountID, nil
}

func (s *DBStore) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	return s.repo.Delete(ctx, sessionID)
}

// Purge drops expired rows. Redis expires keys on its own.
func (s *DBStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
