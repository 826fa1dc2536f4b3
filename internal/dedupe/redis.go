package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store responde se um update do Telegram já foi processado. O Telegram
// reenvia webhooks que não receberam 200 a tempo; sem dedupe um comando de
// agendamento poderia executar duas vezes.
type Store interface {
	Seen(ctx context.Context, updateID int64) (bool, error)
}

const updateTTL = 24 * time.Hour

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Seen marca e responde em uma operação (SETNX); a primeira chamada para um
// update retorna false, as seguintes true.
func (s *RedisStore) Seen(ctx context.Context, updateID int64) (bool, error) {
	key := fmt.Sprintf("tg:update:%d", updateID)

	created, err := s.client.SetNX(ctx, key, 1, updateTTL).Result()
	if err != nil {
		return false, err
	}

	return !created, nil
}

var _ Store = (*RedisStore)(nil)
