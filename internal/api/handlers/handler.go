// handler.go — основной обработчик API Cinemapp.
// Объединяет health и бизнес-обработчики, делегируя запросы
// в сервисный слой через узкие интерфейсы.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
)

// UserService — операции с пользователями, нужные API.
// Реализуется service.UserService.
type UserService interface {
	Signup(ctx context.Context, username, password string) (*model.User, error)
	Signin(ctx context.Context, username, password string) (string, error)
}

// FilmService — операции с фильмами, нужные API.
// Реализуется service.FilmService.
type FilmService interface {
	Upload(ctx context.Context, names []string) ([]*model.Film, error)
	List(ctx context.Context, page, size int) ([]*model.Film, error)
	Like(ctx context.Context, userID, filmID string) error
	Unlike(ctx context.Context, userID, filmID string) error
	Liked(ctx context.Context, userID string) ([]*model.Film, error)
}

// APIHandler — основной обработчик API Cinemapp.
type APIHandler struct {
	health *HealthHandler
	users  UserService
	films  FilmService
	logger *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	users UserService,
	films FilmService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health: health,
		users:  users,
		films:  films,
		logger: logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Общие типы ответов ---

// okResponse — ответ мутирующих операций без тела результата.
type okResponse struct {
	OK bool `json:"ok"`
}

// filmResponse — фильм на wire: {id, name}.
type filmResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// filmsToResponse конвертирует доменные модели в API-тип.
// Пустой список сериализуется как [], не null.
func filmsToResponse(films []*model.Film) []filmResponse {
	res := make([]filmResponse, 0, len(films))
	for _, f := range films {
		res = append(res, filmResponse{ID: f.ID, Name: f.Name})
	}
	return res
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
