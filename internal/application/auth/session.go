package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/internal/domain/repository"
	"github.com/jhoicas/pluckd-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionService emite y verifica tokens de sesión.
// El token solo lleva el ID del usuario; la identidad (y el rol) se resuelve contra el repositorio en cada Verify.
type SessionService struct {
	users repository.UserRepository
	cfg   JWTConfig
}

// NewSessionService construye el servicio de sesión.
func NewSessionService(users repository.UserRepository, cfg JWTConfig) *SessionService {
	return &SessionService{users: users, cfg: cfg}
}

// TTL vigencia de los tokens emitidos.
func (s *SessionService) TTL() time.Duration { return s.cfg.TTL }

// Issue firma un token para el usuario y devuelve su expiración.
func (s *SessionService) Issue(userID int64) (string, time.Time, error) {
	return jwt.Generate(s.cfg.Secret, userID, s.cfg.Issuer, s.cfg.TTL)
}

// Verify valida el token y devuelve la identidad actual del usuario.
// Errores: ErrMissingToken, ErrMalformedToken, ErrExpiredToken, ErrUserNotFound,
// o el error del repositorio (p. ej. ErrUnavailable) si la base no responde.
func (s *SessionService) Verify(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	claims, err := jwt.Parse(s.cfg.Secret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return entity.IdentityOf(user), nil
}
