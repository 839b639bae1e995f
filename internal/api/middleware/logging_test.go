package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/magicaleks/Cinemapp/internal/auth"
)

// logRecord — поля записи лога, которые проверяют тесты.
type logRecord struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
	UserID string `json:"user_id"`
}

func lastLogRecord(t *testing.T, buf *bytes.Buffer) logRecord {
	t.Helper()

	var rec logRecord
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("не удалось разобрать запись лога %q: %v", buf.String(), err)
	}
	return rec
}

func TestRequestLogger_BasicFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})
	handler := RequestLogger(logger)(inner)

	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := lastLogRecord(t, &buf)
	if rec.Method != http.MethodPost {
		t.Errorf("method в логе: получили %q, ожидали %q", rec.Method, http.MethodPost)
	}
	if rec.Path != "/signup" {
		t.Errorf("path в логе: получили %q, ожидали %q", rec.Path, "/signup")
	}
	if rec.Status != http.StatusCreated {
		t.Errorf("status в логе: получили %d, ожидали %d", rec.Status, http.StatusCreated)
	}
	if rec.Level != "INFO" {
		t.Errorf("уровень лога: получили %q, ожидали INFO", rec.Level)
	}
	if rec.UserID != "" {
		t.Errorf("user_id не должен логироваться для публичного маршрута, получили %q", rec.UserID)
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusForbidden, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		handler := RequestLogger(logger)(inner)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/films", nil))

		rec := lastLogRecord(t, &buf)
		if rec.Level != tc.level {
			t.Errorf("статус %d: уровень лога %q, ожидали %q", tc.status, rec.Level, tc.level)
		}
	}
}

// Для запроса, прошедшего JWT middleware, в лог попадает user_id,
// хотя логирующий слой стоит снаружи цепочки аутентификации.
func TestRequestLogger_UserIDForAuthenticatedRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Sign("user-42")
	if err != nil {
		t.Fatalf("не удалось подписать токен: %v", err)
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	jwtAuth := NewJWTAuth(tokens, logger)
	handler := RequestLogger(logger)(jwtAuth.Middleware()(inner))

	req := httptest.NewRequest(http.MethodGet, "/films/like", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := lastLogRecord(t, &buf)
	if rec.UserID != "user-42" {
		t.Errorf("user_id в логе: получили %q, ожидали %q", rec.UserID, "user-42")
	}
}

// Невалидный токен: запрос логируется без user_id.
func TestRequestLogger_NoUserIDForRejectedToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	jwtAuth := NewJWTAuth(auth.NewTokenManager("test-secret", time.Hour), logger)
	handler := RequestLogger(logger)(jwtAuth.Middleware()(inner))

	req := httptest.NewRequest(http.MethodGet, "/films/like", nil)
	req.Header.Set("Authorization", "Bearer не-токен")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := lastLogRecord(t, &buf)
	if rec.Status != http.StatusForbidden {
		t.Errorf("статус в логе: получили %d, ожидали %d", rec.Status, http.StatusForbidden)
	}
	if rec.UserID != "" {
		t.Errorf("user_id не должен логироваться при отклонённом токене, получили %q", rec.UserID)
	}
}
