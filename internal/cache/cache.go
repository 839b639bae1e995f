// Пакет cache — подключение к Redis и кэш списков понравившихся фильмов.
// Ключи — likes:<user_id>, значения — Redis-списки JSON-записей {id, name}.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect создаёт клиент Redis по URI (redis://...).
// Выполняет ping для проверки доступности.
func Connect(ctx context.Context, redisURI string, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга Redis URI: %w", err)
	}

	client := redis.NewClient(opts)

	// Проверяем подключение
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	logger.Info("Подключение к Redis установлено",
		slog.String("addr", opts.Addr),
	)

	return client, nil
}

// Checker — проверка готовности Redis для readiness probe.
type Checker struct {
	client  *redis.Client
	timeout time.Duration
}

// NewChecker создаёт checker с таймаутом проверки.
func NewChecker(client *redis.Client, timeout time.Duration) *Checker {
	return &Checker{client: client, timeout: timeout}
}

// CheckReady выполняет ping и возвращает статус ("ok" / "fail") и сообщение.
func (c *Checker) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return "fail", err.Error()
	}
	return "ok", ""
}
