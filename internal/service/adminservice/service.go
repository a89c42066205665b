// Package adminservice implementa la autenticación del panel
// administrativo: login con correo y contraseña que emite un JWT.
package adminservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/logger"
	"etapaproductiva/internal/pkg/token"
)

// TokenService es el contrato de la capa de tokens.
type TokenService interface {
	GenerateToken(adminID string, rol string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service implementa el login administrativo.
type Service struct {
	repo     domain.AdminRepository
	tokenSvc TokenService
	logger   logger.Logger
}

// NewService crea una nueva instancia del servicio de administradores.
func NewService(repo domain.AdminRepository, tokenSvc TokenService, logger logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Login autentica al administrador y genera un JWT. Un correo inexistente y
// una contraseña incorrecta producen el mismo error para no dar pistas.
func (s *Service) Login(ctx context.Context, correo string, password string) (string, error) {
	if correo == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Correo y contraseña son obligatorios")
	}

	admin, err := s.repo.BuscarPorCorreo(ctx, correo)
	if err != nil {
		var noEncontrado *apperror.NotFoundError
		if errors.As(err, &noEncontrado) {
			s.logger.Info("Login administrativo rechazado: correo desconocido.", map[string]interface{}{"correo": correo})
			return "", apperror.NewUnauthorizedError("Credenciales inválidas")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Login administrativo rechazado: contraseña incorrecta.", map[string]interface{}{"correo": correo})
		return "", apperror.NewUnauthorizedError("Credenciales inválidas")
	}

	tokenString, err := s.tokenSvc.GenerateToken(admin.ID, "admin")
	if err != nil {
		return "", apperror.NewInternalError("Falla al generar el token de autenticación", err)
	}

	s.logger.Info("Login administrativo exitoso.", map[string]interface{}{"admin_id": admin.ID})
	return tokenString, nil
}
