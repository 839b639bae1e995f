package service

import (
	"context"
	"slices"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
	"github.com/magicaleks/Cinemapp/internal/repository"
)

// --- In-memory фейки для тестов сервисного слоя ---

// fakeUserRepo — пользователи в памяти с семантикой Mongo-репозитория.
type fakeUserRepo struct {
	users map[string]*model.User // по ID

	// Инъекция ошибок хранилища
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) AddLike(_ context.Context, userID, filmID string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	// $addToSet: без дубликатов
	if !slices.Contains(u.Likes, filmID) {
		u.Likes = append(u.Likes, filmID)
	}
	return nil
}

func (r *fakeUserRepo) RemoveLike(_ context.Context, userID, filmID string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	// $pull: отсутствующий элемент — no-op
	u.Likes = slices.DeleteFunc(u.Likes, func(id string) bool { return id == filmID })
	return nil
}

// fakeFilmRepo — фильмы в памяти, порядок вставки сохраняется.
type fakeFilmRepo struct {
	films []*model.Film
}

func (r *fakeFilmRepo) InsertMany(_ context.Context, films []*model.Film) error {
	r.films = append(r.films, films...)
	return nil
}

func (r *fakeFilmRepo) List(_ context.Context, skip, limit int) ([]*model.Film, error) {
	if skip >= len(r.films) {
		return []*model.Film{}, nil
	}
	end := min(skip+limit, len(r.films))
	return r.films[skip:end], nil
}

func (r *fakeFilmRepo) GetByIDs(_ context.Context, ids []string) ([]*model.Film, error) {
	res := make([]*model.Film, 0, len(ids))
	for _, f := range r.films {
		if slices.Contains(ids, f.ID) {
			res = append(res, f)
		}
	}
	return res, nil
}

// fakeLikesCache — кэш лайков в памяти.
// Считает обращения, чтобы проверять short-circuit при попадании.
type fakeLikesCache struct {
	entries map[string][]*model.Film

	sets        int
	invalidates int

	setErr error
}

func newFakeLikesCache() *fakeLikesCache {
	return &fakeLikesCache{entries: map[string][]*model.Film{}}
}

func (c *fakeLikesCache) Get(_ context.Context, userID string) ([]*model.Film, error) {
	return c.entries[userID], nil
}

func (c *fakeLikesCache) Set(_ context.Context, userID string, films []*model.Film) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[userID] = slices.Clone(films)
	c.sets++
	return nil
}

func (c *fakeLikesCache) Invalidate(_ context.Context, userID string) error {
	delete(c.entries, userID)
	c.invalidates++
	return nil
}

// fakeTokenIssuer — детерминированный выпуск токенов.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Sign(userID string) (string, error) {
	return "token-" + userID, nil
}
