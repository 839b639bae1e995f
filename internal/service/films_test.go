package service

import (
	"context"
	"errors"
	"testing"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
	"github.com/magicaleks/Cinemapp/internal/repository"
)

// newFilmFixture собирает FilmService на фейках с одним пользователем.
func newFilmFixture(t *testing.T) (*FilmService, *fakeUserRepo, *fakeFilmRepo, *fakeLikesCache, *model.User) {
	t.Helper()

	users := newFakeUserRepo()
	films := &fakeFilmRepo{}
	cache := newFakeLikesCache()
	svc := NewFilmService(films, users, cache, discardLogger())

	user := &model.User{ID: "user-1", Username: "alice", Likes: []string{}}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("создание пользователя: %v", err)
	}
	return svc, users, films, cache, user
}

// TestFilmService_Upload проверяет присвоение UUID при загрузке.
func TestFilmService_Upload(t *testing.T) {
	svc, _, repo, _, _ := newFilmFixture(t)

	films, err := svc.Upload(context.Background(), []string{"Alien", "Blade Runner"})
	if err != nil {
		t.Fatalf("Upload() вернул ошибку: %v", err)
	}

	if len(films) != 2 {
		t.Fatalf("загружено %d фильмов, ожидалось 2", len(films))
	}
	if films[0].ID == "" || films[1].ID == "" {
		t.Error("ожидались непустые UUID фильмов")
	}
	if films[0].ID == films[1].ID {
		t.Error("UUID фильмов совпадают")
	}
	if len(repo.films) != 2 {
		t.Errorf("в хранилище %d фильмов, ожидалось 2", len(repo.films))
	}
}

// TestFilmService_ListPagination проверяет, что последовательные страницы
// дают непересекающиеся срезы без пропусков.
func TestFilmService_ListPagination(t *testing.T) {
	svc, _, _, _, _ := newFilmFixture(t)

	names := []string{"f1", "f2", "f3", "f4", "f5"}
	if _, err := svc.Upload(context.Background(), names); err != nil {
		t.Fatalf("Upload() вернул ошибку: %v", err)
	}

	seen := map[string]bool{}
	total := 0
	for page := 0; ; page++ {
		films, err := svc.List(context.Background(), page, 2)
		if err != nil {
			t.Fatalf("List(page=%d) вернул ошибку: %v", page, err)
		}
		if len(films) == 0 {
			break
		}
		for _, f := range films {
			if seen[f.Name] {
				t.Errorf("фильм %q встретился на двух страницах", f.Name)
			}
			seen[f.Name] = true
		}
		total += len(films)
	}

	if total != 5 {
		t.Errorf("по страницам получено %d фильмов, ожидалось 5", total)
	}
}

// TestFilmService_LikeUnlikeRoundTrip проверяет, что лайк с последующим
// анлайком возвращает множество лайков в исходное состояние.
func TestFilmService_LikeUnlikeRoundTrip(t *testing.T) {
	svc, users, _, _, user := newFilmFixture(t)
	ctx := context.Background()

	if err := svc.Like(ctx, user.ID, "film-1"); err != nil {
		t.Fatalf("Like() вернул ошибку: %v", err)
	}
	// Повторный лайк — идемпотентен, дубликата нет
	if err := svc.Like(ctx, user.ID, "film-1"); err != nil {
		t.Fatalf("повторный Like() вернул ошибку: %v", err)
	}

	u, _ := users.GetByID(ctx, user.ID)
	if len(u.Likes) != 1 {
		t.Fatalf("likes = %v, ожидался один элемент", u.Likes)
	}

	if err := svc.Unlike(ctx, user.ID, "film-1"); err != nil {
		t.Fatalf("Unlike() вернул ошибку: %v", err)
	}
	// Анлайк отсутствующего — no-op
	if err := svc.Unlike(ctx, user.ID, "film-1"); err != nil {
		t.Fatalf("повторный Unlike() вернул ошибку: %v", err)
	}

	u, _ = users.GetByID(ctx, user.ID)
	if len(u.Likes) != 0 {
		t.Errorf("likes = %v, ожидалось пустое множество", u.Likes)
	}
}

// TestFilmService_LikeInvalidatesCache проверяет инвалидацию кэша после записи.
func TestFilmService_LikeInvalidatesCache(t *testing.T) {
	svc, _, _, cache, user := newFilmFixture(t)
	ctx := context.Background()

	cache.entries[user.ID] = []*model.Film{{ID: "stale", Name: "Stale"}}

	if err := svc.Like(ctx, user.ID, "film-1"); err != nil {
		t.Fatalf("Like() вернул ошибку: %v", err)
	}

	if _, ok := cache.entries[user.ID]; ok {
		t.Error("запись кэша не инвалидирована после лайка")
	}
	if cache.invalidates != 1 {
		t.Errorf("invalidates = %d, ожидалась 1", cache.invalidates)
	}
}

// TestFilmService_LikeStoreFailureSkipsInvalidation проверяет, что при
// ошибке записи в хранилище инвалидация кэша не выполняется.
func TestFilmService_LikeStoreFailureSkipsInvalidation(t *testing.T) {
	svc, users, _, cache, user := newFilmFixture(t)
	ctx := context.Background()

	cache.entries[user.ID] = []*model.Film{{ID: "f", Name: "Film"}}
	users.updateErr = errors.New("хранилище недоступно")

	if err := svc.Like(ctx, user.ID, "film-1"); err == nil {
		t.Fatal("ожидалась ошибка хранилища")
	}

	if cache.invalidates != 0 {
		t.Errorf("invalidates = %d, инвалидация не должна была выполняться", cache.invalidates)
	}
	if _, ok := cache.entries[user.ID]; !ok {
		t.Error("запись кэша удалена при неуспешной записи в хранилище")
	}
}

// TestFilmService_LikeUnknownUser проверяет ErrNotFound для несуществующего
// пользователя.
func TestFilmService_LikeUnknownUser(t *testing.T) {
	svc, _, _, _, _ := newFilmFixture(t)

	err := svc.Like(context.Background(), "no-such-user", "film-1")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Like() = %v, ожидался ErrNotFound", err)
	}
}

// TestFilmService_LikedCacheMissPopulates проверяет пересчёт и наполнение
// кэша при промахе.
func TestFilmService_LikedCacheMissPopulates(t *testing.T) {
	svc, _, _, cache, user := newFilmFixture(t)
	ctx := context.Background()

	films, err := svc.Upload(ctx, []string{"Alien", "Blade Runner"})
	if err != nil {
		t.Fatalf("Upload() вернул ошибку: %v", err)
	}
	for _, f := range films {
		if err := svc.Like(ctx, user.ID, f.ID); err != nil {
			t.Fatalf("Like() вернул ошибку: %v", err)
		}
	}

	liked, err := svc.Liked(ctx, user.ID)
	if err != nil {
		t.Fatalf("Liked() вернул ошибку: %v", err)
	}
	if len(liked) != 2 {
		t.Fatalf("получено %d фильмов, ожидалось 2", len(liked))
	}

	// Кэш наполнен пересчитанным списком
	if cache.sets != 1 {
		t.Errorf("sets = %d, ожидалась 1", cache.sets)
	}
	if len(cache.entries[user.ID]) != 2 {
		t.Errorf("в кэше %d записей, ожидалось 2", len(cache.entries[user.ID]))
	}
}

// TestFilmService_LikedCacheHitShortCircuit проверяет строгое доверие
// непустой записи кэша: первичное хранилище не опрашивается, даже если
// его состояние изменилось в обход инвалидации.
func TestFilmService_LikedCacheHitShortCircuit(t *testing.T) {
	svc, users, _, _, user := newFilmFixture(t)
	ctx := context.Background()

	films, err := svc.Upload(ctx, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Upload() вернул ошибку: %v", err)
	}
	for _, f := range films {
		if err := svc.Like(ctx, user.ID, f.ID); err != nil {
			t.Fatalf("Like() вернул ошибку: %v", err)
		}
	}

	// Первое чтение наполняет кэш
	first, err := svc.Liked(ctx, user.ID)
	if err != nil {
		t.Fatalf("Liked() вернул ошибку: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("получено %d фильмов, ожидалось 2", len(first))
	}

	// Мутируем хранилище в обход сервиса (без инвалидации кэша)
	if err := users.RemoveLike(ctx, user.ID, films[0].ID); err != nil {
		t.Fatalf("RemoveLike() вернул ошибку: %v", err)
	}

	// Чтение по-прежнему возвращает закэшированные [A, B]
	second, err := svc.Liked(ctx, user.ID)
	if err != nil {
		t.Fatalf("Liked() вернул ошибку: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("получено %d фильмов, ожидались 2 из кэша", len(second))
	}
}

// TestFilmService_LikedEmptyNotCached проверяет, что пустой результат
// не кэшируется.
func TestFilmService_LikedEmptyNotCached(t *testing.T) {
	svc, _, _, cache, user := newFilmFixture(t)

	liked, err := svc.Liked(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Liked() вернул ошибку: %v", err)
	}
	if len(liked) != 0 {
		t.Fatalf("получено %d фильмов, ожидался пустой список", len(liked))
	}

	if cache.sets != 0 {
		t.Errorf("sets = %d, пустой результат не должен кэшироваться", cache.sets)
	}
}

// TestFilmService_LikedCacheSetFailure проверяет, что ошибка наполнения
// кэша доходит до вызывающего как есть: слой кэша уже вернул её
// обёрнутой, сервис не добавляет второй слой.
func TestFilmService_LikedCacheSetFailure(t *testing.T) {
	svc, _, _, cache, user := newFilmFixture(t)
	ctx := context.Background()

	films, err := svc.Upload(ctx, []string{"Solaris"})
	if err != nil {
		t.Fatalf("Upload() вернул ошибку: %v", err)
	}
	if err := svc.Like(ctx, user.ID, films[0].ID); err != nil {
		t.Fatalf("Like() вернул ошибку: %v", err)
	}

	cacheErr := errors.New("ошибка записи кэша лайков: соединение закрыто")
	cache.setErr = cacheErr

	_, err = svc.Liked(ctx, user.ID)
	if err != cacheErr {
		t.Errorf("Liked() = %v, ожидалась ошибка кэша без дополнительной обёртки", err)
	}
}

// TestFilmService_LikedUnknownUser проверяет ErrNotFound на пути чтения.
func TestFilmService_LikedUnknownUser(t *testing.T) {
	svc, _, _, _, _ := newFilmFixture(t)

	_, err := svc.Liked(context.Background(), "no-such-user")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Liked() = %v, ожидался ErrNotFound", err)
	}
}
