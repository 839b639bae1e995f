// Пакет database — подключение к MongoDB через mongo-driver,
// создание индексов и проверка готовности.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/magicaleks/Cinemapp/internal/config"
)

// Connect создаёт клиент MongoDB с пулом соединений, управляемым драйвером.
// Выполняет ping для проверки доступности.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.MongoURI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MongoDB: %w", err)
	}

	// Проверяем подключение
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ошибка подключения к MongoDB: %w", err)
	}

	logger.Info("Подключение к MongoDB установлено",
		slog.String("database", cfg.MongoDatabase),
	)

	return client, nil
}

// EnsureIndexes создаёт индексы коллекций.
// Уникальный индекс по username — единственное схемное ограничение:
// именно он разрешает гонку одновременных регистраций с одним именем.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ошибка создания индекса users.username: %w", err)
	}

	logger.Info("Индексы MongoDB созданы")
	return nil
}

// Checker — проверка готовности MongoDB для readiness probe.
type Checker struct {
	client  *mongo.Client
	timeout time.Duration
}

// NewChecker создаёт checker с таймаутом проверки.
func NewChecker(client *mongo.Client, timeout time.Duration) *Checker {
	return &Checker{client: client, timeout: timeout}
}

// CheckReady выполняет ping и возвращает статус ("ok" / "fail") и сообщение.
func (c *Checker) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return "fail", err.Error()
	}
	return "ok", ""
}
