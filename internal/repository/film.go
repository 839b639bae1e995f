package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
)

// FilmRepository — интерфейс доступа к фильмам.
type FilmRepository interface {
	// InsertMany вставляет пакет фильмов одним запросом.
	InsertMany(ctx context.Context, films []*model.Film) error
	// List возвращает страницу фильмов: skip документов пропускается,
	// limit документов возвращается.
	List(ctx context.Context, skip, limit int) ([]*model.Film, error)
	// GetByIDs возвращает фильмы с указанными UUID ($in).
	// Порядок результата — порядок выдачи хранилища.
	GetByIDs(ctx context.Context, ids []string) ([]*model.Film, error)
}

// filmRepo — реализация FilmRepository через mongo-driver.
type filmRepo struct {
	col *mongo.Collection
}

// NewFilmRepository создаёт репозиторий фильмов.
func NewFilmRepository(db *mongo.Database) FilmRepository {
	return &filmRepo{col: db.Collection(filmsCollection)}
}

// InsertMany вставляет пакет фильмов.
func (r *filmRepo) InsertMany(ctx context.Context, films []*model.Film) error {
	docs := make([]any, 0, len(films))
	for _, f := range films {
		docs = append(docs, f)
	}

	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("ошибка вставки фильмов: %w", err)
	}
	return nil
}

// List возвращает страницу фильмов через skip/limit на стороне хранилища.
func (r *filmRepo) List(ctx context.Context, skip, limit int) ([]*model.Film, error) {
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка фильмов: %w", err)
	}
	defer cursor.Close(ctx)

	films := make([]*model.Film, 0, limit)
	if err := cursor.All(ctx, &films); err != nil {
		return nil, fmt.Errorf("ошибка чтения списка фильмов: %w", err)
	}
	return films, nil
}

// GetByIDs возвращает фильмы по множеству UUID.
func (r *filmRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Film, error) {
	if len(ids) == 0 {
		return []*model.Film{}, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения фильмов по id: %w", err)
	}
	defer cursor.Close(ctx)

	films := make([]*model.Film, 0, len(ids))
	if err := cursor.All(ctx, &films); err != nil {
		return nil, fmt.Errorf("ошибка чтения фильмов по id: %w", err)
	}
	return films, nil
}
