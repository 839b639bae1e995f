package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
	"github.com/magicaleks/Cinemapp/internal/repository"
)

// Prometheus-метрики кэша лайков.
var (
	likesCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinemapp_likes_cache_hits_total",
		Help: "Общее количество попаданий в кэш списков лайков.",
	})
	likesCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinemapp_likes_cache_misses_total",
		Help: "Общее количество промахов кэша списков лайков.",
	})
)

// LikesCache — кэш списков понравившихся фильмов.
// Реализуется cache.LikesCache (Redis).
type LikesCache interface {
	// Get возвращает закэшированный список или (nil, nil) при промахе.
	Get(ctx context.Context, userID string) ([]*model.Film, error)
	// Set записывает список с TTL.
	Set(ctx context.Context, userID string, films []*model.Film) error
	// Invalidate удаляет запись пользователя.
	Invalidate(ctx context.Context, userID string) error
}

// FilmService — каталог фильмов и лайки пользователей.
type FilmService struct {
	films  repository.FilmRepository
	users  repository.UserRepository
	cache  LikesCache
	logger *slog.Logger
}

// NewFilmService создаёт сервис фильмов.
func NewFilmService(
	films repository.FilmRepository,
	users repository.UserRepository,
	cache LikesCache,
	logger *slog.Logger,
) *FilmService {
	return &FilmService{
		films:  films,
		users:  users,
		cache:  cache,
		logger: logger.With(slog.String("component", "film_service")),
	}
}

// Upload добавляет пакет фильмов в каталог, присваивая каждому UUID.
func (s *FilmService) Upload(ctx context.Context, names []string) ([]*model.Film, error) {
	films := make([]*model.Film, 0, len(names))
	for _, name := range names {
		films = append(films, &model.Film{
			ID:   uuid.NewString(),
			Name: name,
		})
	}

	if err := s.films.InsertMany(ctx, films); err != nil {
		return nil, err
	}

	s.logger.Info("Фильмы загружены", slog.Int("count", len(films)))
	return films, nil
}

// List возвращает страницу каталога: skip = page*size, limit = size.
func (s *FilmService) List(ctx context.Context, page, size int) ([]*model.Film, error) {
	return s.films.List(ctx, page*size, size)
}

// Like добавляет фильм в множество лайков пользователя и инвалидирует
// кэш. Инвалидация выполняется только после подтверждённой записи:
// при ошибке хранилища кэш не трогаем — он всё ещё соответствует
// немодифицированному состоянию.
func (s *FilmService) Like(ctx context.Context, userID, filmID string) error {
	if err := s.users.AddLike(ctx, userID, filmID); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, userID)
}

// Unlike удаляет фильм из множества лайков пользователя и инвалидирует
// кэш. Отсутствующий лайк — no-op на стороне хранилища.
func (s *FilmService) Unlike(ctx context.Context, userID, filmID string) error {
	if err := s.users.RemoveLike(ctx, userID, filmID); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, userID)
}

// Liked возвращает список понравившихся фильмов пользователя.
//
// Read-through: непустая запись кэша возвращается как есть, без
// обращения к первичному хранилищу — до истечения TTL или явной
// инвалидации она считается достоверной. При промахе список
// пересчитывается из хранилища и кэшируется, если непуст.
// Пустой результат намеренно не кэшируется: пустая запись-заглушка
// маскировала бы первый лайк на весь TTL.
func (s *FilmService) Liked(ctx context.Context, userID string) ([]*model.Film, error) {
	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		likesCacheHitsTotal.Inc()
		return cached, nil
	}
	likesCacheMissesTotal.Inc()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	films, err := s.films.GetByIDs(ctx, user.Likes)
	if err != nil {
		return nil, err
	}

	if len(films) > 0 {
		if err := s.cache.Set(ctx, userID, films); err != nil {
			return nil, err
		}
	}
	return films, nil
}
