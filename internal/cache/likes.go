package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
)

// likesKey строит ключ кэша списка лайков пользователя.
// Единое место, чтобы формат ключей не расползался по коду.
func likesKey(userID string) string {
	return "likes:" + userID
}

// LikesCache — кэш списков понравившихся фильмов в Redis.
// Значение — список JSON-сериализованных Film в порядке выдачи
// первичного хранилища. Запись либо отсутствует, либо полностью
// соответствует состоянию хранилища на момент построения.
type LikesCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLikesCache создаёт кэш с указанным TTL записей.
func NewLikesCache(rdb *redis.Client, ttl time.Duration) *LikesCache {
	return &LikesCache{rdb: rdb, ttl: ttl}
}

// Get возвращает закэшированный список фильмов пользователя.
// Отсутствующая или пустая запись — (nil, nil), трактуется как cache miss.
func (c *LikesCache) Get(ctx context.Context, userID string) ([]*model.Film, error) {
	raw, err := c.rdb.LRange(ctx, likesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения кэша лайков: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	films := make([]*model.Film, 0, len(raw))
	for _, item := range raw {
		f := &model.Film{}
		if err := json.Unmarshal([]byte(item), f); err != nil {
			return nil, fmt.Errorf("ошибка десериализации записи кэша: %w", err)
		}
		films = append(films, f)
	}
	return films, nil
}

// Set записывает список фильмов пользователя с TTL.
// Del + RPush + Expire выполняются одним pipeline: RPush сохраняет
// порядок элементов, предварительный Del не даёт дописать записи
// к параллельно созданной версии списка.
func (c *LikesCache) Set(ctx context.Context, userID string, films []*model.Film) error {
	// Пустой список не кэшируется: пустая запись эквивалентна отсутствующей
	if len(films) == 0 {
		return nil
	}

	key := likesKey(userID)

	values := make([]any, 0, len(films))
	for _, f := range films {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("ошибка сериализации записи кэша: %w", err)
		}
		values = append(values, data)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, values...)
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ошибка записи кэша лайков: %w", err)
	}
	return nil
}

// Invalidate удаляет запись кэша пользователя.
// Следующее чтение пересчитает список из первичного хранилища.
func (c *LikesCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, likesKey(userID)).Err(); err != nil {
		return fmt.Errorf("ошибка инвалидации кэша лайков: %w", err)
	}
	return nil
}
