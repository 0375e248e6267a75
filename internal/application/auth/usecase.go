// Package auth emite tokens de acceso para usuarios existentes. El login y las
// credenciales pertenecen al subsistema de identidad; este emisor existe para el
// arranque de entornos (CLI de operaciones) y pruebas.
package auth

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenIssuer firma tokens con el rol vigente del usuario.
type TokenIssuer struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewTokenIssuer construye el emisor.
func NewTokenIssuer(userRepo repository.UserRepository, jwtCfg JWTConfig) *TokenIssuer {
	return &TokenIssuer{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Issue genera un token para el usuario. Usuarios inactivos o suspendidos no reciben token.
func (uc *TokenIssuer) Issue(ctx context.Context, userID string) (string, *entity.User, error) {
	if userID == "" {
		return "", nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, domain.ErrUserNotFound
	}
	if user.Status != entity.UserStatusActive {
		return "", nil, domain.ErrForbidden
	}
	if !user.Role.Valid() {
		return "", nil, domain.ErrInvalidInput
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.TTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
