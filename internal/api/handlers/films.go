// films.go — обработчики каталога фильмов и лайков.
// POST /api/films, GET /api/films — публичные.
// POST/DELETE/GET /api/films/like — за JWT middleware.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/magicaleks/Cinemapp/internal/api/errors"
	"github.com/magicaleks/Cinemapp/internal/api/middleware"
	"github.com/magicaleks/Cinemapp/internal/repository"
)

// filmUploadRequest — элемент тела POST /api/films.
type filmUploadRequest struct {
	Name string `json:"name"`
}

// likeRequest — тело POST/DELETE /api/films/like.
type likeRequest struct {
	FilmID string `json:"film_id"`
}

// Границы параметра size в GET /api/films.
const (
	minPageSize = 1
	maxPageSize = 100
)

// UploadFilms — массовая загрузка фильмов в каталог.
func (h *APIHandler) UploadFilms(w http.ResponseWriter, r *http.Request) {
	var req []filmUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}
	if len(req) == 0 {
		apierrors.ValidationError(w, "Ожидался непустой список фильмов")
		return
	}

	names := make([]string, 0, len(req))
	for _, f := range req {
		if f.Name == "" {
			apierrors.ValidationError(w, "Поле name обязательно для каждого фильма")
			return
		}
		names = append(names, f.Name)
	}

	if _, err := h.films.Upload(r.Context(), names); err != nil {
		h.logger.Error("Ошибка загрузки фильмов",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка при загрузке фильмов")
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// ListFilms — страница каталога.
// page ≥ 0 (по умолчанию 0), size — обязательный, 1–100.
func (h *APIHandler) ListFilms(w http.ResponseWriter, r *http.Request) {
	page, err := queryIntDefault(r, "page", 0)
	if err != nil || page < 0 {
		apierrors.ValidationError(w, "Параметр page должен быть целым числом >= 0")
		return
	}

	sizeStr := r.URL.Query().Get("size")
	if sizeStr == "" {
		apierrors.ValidationError(w, "Параметр size обязателен")
		return
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < minPageSize || size > maxPageSize {
		apierrors.ValidationError(w, "Параметр size должен быть целым числом от 1 до 100")
		return
	}

	films, err := h.films.List(r.Context(), page, size)
	if err != nil {
		h.logger.Error("Ошибка получения списка фильмов",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка при получении списка фильмов")
		return
	}

	writeJSON(w, http.StatusOK, filmsToResponse(films))
}

// LikeFilm — добавление фильма в понравившиеся.
func (h *APIHandler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	h.mutateLike(w, r, h.films.Like, "Ошибка добавления лайка")
}

// UnlikeFilm — удаление фильма из понравившихся.
func (h *APIHandler) UnlikeFilm(w http.ResponseWriter, r *http.Request) {
	h.mutateLike(w, r, h.films.Unlike, "Ошибка удаления лайка")
}

// mutateLike — общий код Like/Unlike: валидация тела, вызов сервиса,
// маппинг ошибок.
func (h *APIHandler) mutateLike(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, filmID string) error,
	logMsg string,
) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		apierrors.Forbidden(w, "Запрос не аутентифицирован")
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}
	if req.FilmID == "" {
		apierrors.ValidationError(w, "Поле film_id обязательно")
		return
	}

	if err := op(r.Context(), userID, req.FilmID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Пользователь не найден")
			return
		}
		h.logger.Error(logMsg,
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		apierrors.InternalError(w, "Внутренняя ошибка хранилища")
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// LikedFilms — список понравившихся фильмов (read-through кэш).
func (h *APIHandler) LikedFilms(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		apierrors.Forbidden(w, "Запрос не аутентифицирован")
		return
	}

	films, err := h.films.Liked(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Пользователь не найден")
			return
		}
		h.logger.Error("Ошибка получения понравившихся фильмов",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		apierrors.InternalError(w, "Внутренняя ошибка хранилища")
		return
	}

	writeJSON(w, http.StatusOK, filmsToResponse(films))
}

// queryIntDefault возвращает целочисленный query-параметр или значение
// по умолчанию, если параметр не задан.
func queryIntDefault(r *http.Request, key string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(val)
}
