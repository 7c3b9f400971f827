package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/config"
)

var _ repository.SessionStore = (*RedisStore)(nil)

const redisKeyPrefix = "catalogo:session:"

// RedisStore almacén de sesiones en Redis; la expiración la aplica Redis (TTL de la clave).
type RedisStore struct {
	db *redis.Client
}

// NewRedisClient abre la conexión y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	db := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return db, nil
}

// NewRedisStore construye el adaptador sobre un cliente ya abierto.
func NewRedisStore(db *redis.Client) *RedisStore {
	return &RedisStore{db: db}
}

func (s *RedisStore) Set(ctx context.Context, sid, token string, ttl time.Duration) error {
	if err := s.db.Set(ctx, redisKeyPrefix+sid, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (string, error) {
	token, err := s.db.Get(ctx, redisKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("redis get session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := s.db.Del(ctx, redisKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
