// Пакет auth — выпуск и проверка JWT (HS256) с единственным claim sub.
// Секрет подписи — серверный, из конфигурации. Состояние на сервере
// не хранится: отзыв токена не поддерживается.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken — токен не прошёл криптографическую проверку,
// повреждён, просрочен или не содержит sub.
var ErrInvalidToken = errors.New("невалидный токен")

// TokenManager выпускает и проверяет токены доступа.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создаёт менеджер токенов.
// ttl — время жизни выпускаемых токенов; 0 — бессрочные токены
// (exp claim не выставляется, legacy-режим).
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Sign выпускает токен с sub = userID.
func (m *TokenManager) Sign(userID string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify проверяет подпись и срок действия токена.
// Возвращает sub или ErrInvalidToken. Алгоритм зафиксирован — HS256,
// токены с другим alg (включая none) отклоняются.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
