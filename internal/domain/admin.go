package domain

import (
	"context"
	"time"
)

// Administrador representa una cuenta del panel administrativo.
type Administrador struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre"`
	Correo       string    `json:"correo"`
	PasswordHash string    `json:"-"` // Nunca se expone en las respuestas
	CreadoEn     time.Time `json:"creadoEn"`
}

// AdminRepository define el contrato de persistencia de administradores.
type AdminRepository interface {
	BuscarPorCorreo(ctx context.Context, correo string) (Administrador, error)
}
