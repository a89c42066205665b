package adminrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/logger"
)

// AdminRepository implementa la interfaz domain.AdminRepository.
type AdminRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAdminRepository crea una nueva instancia del repositorio de
// administradores.
func NewAdminRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AdminRepository {
	return &AdminRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// BuscarPorCorreo busca una cuenta administrativa por correo.
func (r *AdminRepository) BuscarPorCorreo(ctx context.Context, correo string) (domain.Administrador, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, nombre, correo, password_hash, creado_en FROM administradores WHERE correo = $1`

	var admin domain.Administrador
	err := r.DB.QueryRowContext(ctxTimeout, query, correo).Scan(
		&admin.ID,
		&admin.Nombre,
		&admin.Correo,
		&admin.PasswordHash,
		&admin.CreadoEn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Administrador{}, apperror.NewNotFoundError(fmt.Sprintf("Administrador con correo '%s' no encontrado", correo))
		}
		r.logger.Error("Falla al buscar administrador por correo.", err)
		return domain.Administrador{}, apperror.NewDBError("Falla al buscar administrador", err)
	}

	return admin, nil
}
