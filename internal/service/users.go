// Пакет service — бизнес-логика Cinemapp.
// UserService — регистрация и вход, FilmService — каталог и лайки.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/magicaleks/Cinemapp/internal/domain/model"
	"github.com/magicaleks/Cinemapp/internal/repository"
)

// ErrInvalidCredentials — неизвестное имя пользователя или неверный пароль.
// Намеренно не различает эти два случая.
var ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")

// TokenIssuer — выпуск токена доступа для пользователя.
// Реализуется auth.TokenManager.
type TokenIssuer interface {
	Sign(userID string) (string, error)
}

// UserService — регистрация и вход пользователей.
type UserService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repository.UserRepository, tokens TokenIssuer, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Signup регистрирует нового пользователя: bcrypt-хэш пароля, UUID,
// пустое множество лайков. Возвращает repository.ErrDuplicate,
// если имя занято.
func (s *UserService) Signup(ctx context.Context, username, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Likes:        []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь зарегистрирован",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)
	return user, nil
}

// Signin проверяет учётные данные и выпускает токен доступа.
// Возвращает ErrInvalidCredentials при неизвестном имени или
// неверном пароле.
func (s *UserService) Signin(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return "", fmt.Errorf("ошибка выпуска токена: %w", err)
	}

	s.logger.Debug("Пользователь вошёл",
		slog.String("user_id", user.ID),
	)
	return token, nil
}
