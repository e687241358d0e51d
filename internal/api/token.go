package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errInvalidClaims = errors.New("invalid token claims")

// IssueToken подписывает HS256 токен доступа. sub содержит UUID пользователя, role его роль.
func IssueToken(secret string, userID uuid.UUID, role model.UserRole, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken проверяет подпись и срок действия и возвращает того, кто выполняет действие
func ParseToken(secret, raw string) (service.Actor, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return service.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return service.Actor{}, errInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return service.Actor{}, fmt.Errorf("read subject: %w", err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return service.Actor{}, errInvalidClaims
	}

	role, _ := claims["role"].(string)
	switch model.UserRole(role) {
	case model.UserRoleUser, model.UserRoleOperator, model.UserRoleAdmin:
	default:
		return service.Actor{}, errInvalidClaims
	}

	return service.Actor{ID: id, Role: model.UserRole(role)}, nil
}
