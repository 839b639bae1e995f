// auth.go — JWT middleware для защищённых маршрутов Cinemapp.
// Извлекает Bearer token из Authorization, проверяет подпись (HS256,
// серверный секрет) и помещает sub в контекст запроса.
// Все ошибки аутентификации — 403, без деталей о причине в статусе.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/magicaleks/Cinemapp/internal/api/errors"
	"github.com/magicaleks/Cinemapp/internal/auth"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// contextKeyUserID — идентификатор аутентифицированного пользователя
// в контексте запроса.
const contextKeyUserID contextKey = "user_id"

// UserID возвращает идентификатор пользователя из контекста запроса.
// ok == false, если запрос не проходил через JWT middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKeyUserID).(string)
	return id, ok
}

// WithUserID возвращает контекст с идентификатором пользователя.
// Используется самим middleware и тестами обработчиков.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeyUserID, userID)
}

// JWTAuth — middleware аутентификации по bearer-токену.
type JWTAuth struct {
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewJWTAuth создаёт JWT middleware.
func NewJWTAuth(tokens *auth.TokenManager, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		tokens: tokens,
		logger: logger.With(slog.String("component", "jwt_auth")),
	}
}

// Middleware возвращает HTTP middleware для JWT-аутентификации.
// Проверка чистая: никаких побочных эффектов, только извлечение sub.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем Bearer token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Forbidden(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Forbidden(w, "Неверная схема аутентификации: ожидается Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Forbidden(w, "Пустой Bearer token")
				return
			}

			// Проверка подписи и извлечение sub
			userID, err := j.tokens.Verify(tokenString)
			if err != nil {
				j.logger.Debug("JWT валидация не пройдена",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Forbidden(w, "Невалидный токен аутентификации")
				return
			}

			// Сообщаем user_id логирующему middleware выше по цепочке
			noteUserID(r.Context(), userID)

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
