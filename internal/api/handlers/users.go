// users.go — обработчики POST /api/user/signup и POST /api/user/signin.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/magicaleks/Cinemapp/internal/api/errors"
	"github.com/magicaleks/Cinemapp/internal/repository"
	"github.com/magicaleks/Cinemapp/internal/service"
)

// credentialsRequest — тело запросов signup и signin.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse — созданный пользователь на wire.
// Хэш пароля наружу не отдаётся.
type userResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Likes    []string `json:"likes"`
}

// tokenResponse — токен доступа после входа.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// SignUp — регистрация нового пользователя.
func (h *APIHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}
	if req.Username == "" || req.Password == "" {
		apierrors.ValidationError(w, "Поля username и password обязательны")
		return
	}

	user, err := h.users.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			apierrors.ValidationError(w, "Пользователь с таким именем уже существует")
			return
		}
		h.logger.Error("Ошибка регистрации пользователя",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка при регистрации")
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Likes:    user.Likes,
	})
}

// SignIn — вход по имени и паролю, выпуск токена доступа.
func (h *APIHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	token, err := h.users.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apierrors.Unauthorized(w, "Неверное имя пользователя или пароль")
			return
		}
		h.logger.Error("Ошибка входа пользователя",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка при входе")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
