package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
)

// UserRepository — интерфейс доступа к пользователям.
type UserRepository interface {
	// Create сохраняет нового пользователя.
	// Возвращает ErrDuplicate, если username уже занят.
	Create(ctx context.Context, user *model.User) error
	// GetByID возвращает пользователя по UUID или ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByUsername возвращает пользователя по имени или ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// AddLike атомарно добавляет фильм в множество лайков ($addToSet —
	// повторное добавление не создаёт дубликат).
	// Возвращает ErrNotFound, если пользователь не существует.
	AddLike(ctx context.Context, userID, filmID string) error
	// RemoveLike атомарно удаляет фильм из множества лайков ($pull —
	// отсутствующий элемент игнорируется).
	// Возвращает ErrNotFound, если пользователь не существует.
	RemoveLike(ctx context.Context, userID, filmID string) error
}

// userRepo — реализация UserRepository через mongo-driver.
type userRepo struct {
	col *mongo.Collection
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepo{col: db.Collection(usersCollection)}
}

// Create вставляет документ пользователя.
// Гонка двух одновременных регистраций с одним именем разрешается
// уникальным индексом по username: проигравший получает duplicate key.
func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по UUID или ErrNotFound.
func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return u, nil
}

// GetByUsername возвращает пользователя по имени или ErrNotFound.
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u := &model.User{}
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return u, nil
}

// AddLike добавляет filmID в likes через $addToSet.
func (r *userRepo) AddLike(ctx context.Context, userID, filmID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"likes": filmID}},
	)
	if err != nil {
		return fmt.Errorf("ошибка добавления лайка: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveLike удаляет filmID из likes через $pull.
func (r *userRepo) RemoveLike(ctx context.Context, userID, filmID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"likes": filmID}},
	)
	if err != nil {
		return fmt.Errorf("ошибка удаления лайка: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
