// logging.go — slog-логирование HTTP-запросов Cinemapp.
// Пишет метод, путь, статус, длительность и размер ответа; для
// запросов, прошедших JWT middleware, дополнительно логируется user_id.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// userIDHolder — носитель идентификатора пользователя между слоями
// middleware. Логирующий слой стоит снаружи JWT-слоя и не видит
// значений, добавленных в контекст глубже по цепочке, поэтому
// кладёт в контекст указатель, который JWT middleware заполняет.
type userIDHolder struct {
	id string
}

// contextKeyUserIDHolder — ключ носителя user_id в контексте.
const contextKeyUserIDHolder contextKey = "user_id_holder"

// noteUserID записывает идентификатор пользователя в носитель,
// если запрос проходит через логирующий middleware.
func noteUserID(ctx context.Context, userID string) {
	if holder, ok := ctx.Value(contextKeyUserIDHolder).(*userIDHolder); ok {
		holder.id = userID
	}
}

// loggingResponseWriter — обёртка для перехвата статус-кода
// и размера ответа.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *loggingResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestLogger возвращает middleware, логирующий каждый HTTP-запрос.
// Уровень зависит от статус-кода: INFO (1xx-3xx), WARN (4xx), ERROR (5xx).
// На защищённых маршрутах в запись попадает user_id аутентифицированного
// пользователя.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With(slog.String("component", "http_log"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			// Носитель user_id: заполняется JWT middleware после
			// успешной проверки токена
			holder := &userIDHolder{}
			r = r.WithContext(context.WithValue(r.Context(), contextKeyUserIDHolder, holder))

			next.ServeHTTP(wrapped, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if holder.id != "" {
				attrs = append(attrs, slog.String("user_id", holder.id))
			}

			// Уровень логирования зависит от статус-кода
			level := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				level = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				level = slog.LevelWarn
			}

			log.LogAttrs(r.Context(), level, "HTTP запрос", attrs...)
		})
	}
}
