package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/router/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store хранит сессии пользователей в Redis: ключ session:<token>, значение - Identity в JSON.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore создает хранилище сессий со временем жизни ttl.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// NewRedisClient подключается к Redis по параметрам из конфигурации.
func NewRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

// Create открывает сессию и возвращает ее токен.
func (s *Store) Create(ctx context.Context, identity models.Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	token := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get возвращает пользователя сессии. Неизвестный или истекший токен дает ErrUnauthenticated.
func (s *Store) Get(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, errs.Unauthenticated("login required")
	}

	payload, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.Unauthenticated("session expired, please log in again")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &identity, nil
}

// Delete закрывает сессию.
func (s *Store) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
