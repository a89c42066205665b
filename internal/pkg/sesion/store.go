// Package sesion implementa el almacén de marcadores de sesión del flujo de
// registro. El registro exitoso deja un marcador que liga el correo del
// aprendiz a un token opaco; el formulario de creación de contraseña exige
// ese marcador.
package sesion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/cache"
)

const claveSesion = "sesion:%s"

// Marcador es el estado de sesión que deja el registro. Se pasa de forma
// explícita al flujo de activación en lugar de vivir como estado ambiente.
type Marcador struct {
	Correo           string `json:"correo"`
	RegistroCompleto bool   `json:"registroCompleto"`
}

// Store define el contrato del almacén de sesiones de registro.
type Store interface {
	// Crear persiste un marcador nuevo y retorna su token opaco.
	Crear(ctx context.Context, correo string) (string, error)
	// Obtener recupera el marcador; retorna NoSessionError si el token no
	// existe o expiró.
	Obtener(ctx context.Context, token string) (Marcador, error)
	Eliminar(ctx context.Context, token string) error
}

// RedisStore es la implementación concreta de Store sobre el cache Redis.
type RedisStore struct {
	cache cache.Client
	ttl   time.Duration
}

// NewRedisStore crea el almacén de sesiones con el TTL configurado.
func NewRedisStore(cacheClient cache.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cacheClient, ttl: ttl}
}

// Crear genera un token opaco y persiste el marcador serializado.
func (s *RedisStore) Crear(ctx context.Context, correo string) (string, error) {
	token := uuid.NewString()

	marcador := Marcador{Correo: correo, RegistroCompleto: true}
	serializado, err := json.Marshal(marcador)
	if err != nil {
		return "", apperror.NewInternalError("Falla al serializar el marcador de sesión", err)
	}

	if err := s.cache.Set(ctx, fmt.Sprintf(claveSesion, token), serializado, s.ttl); err != nil {
		return "", apperror.NewInternalError("Falla al guardar la sesión de registro", err)
	}

	return token, nil
}

// Obtener recupera y deserializa el marcador asociado al token.
func (s *RedisStore) Obtener(ctx context.Context, token string) (Marcador, error) {
	if token == "" {
		return Marcador{}, apperror.NewNoSessionError()
	}

	serializado, err := s.cache.Get(ctx, fmt.Sprintf(claveSesion, token))
	if err == cache.ErrCacheMiss {
		return Marcador{}, apperror.NewNoSessionError()
	}
	if err != nil {
		return Marcador{}, apperror.NewInternalError("Falla al leer la sesión de registro", err)
	}

	var marcador Marcador
	if err := json.Unmarshal([]byte(serializado), &marcador); err != nil {
		return Marcador{}, apperror.NewInternalError("Marcador de sesión corrupto", err)
	}

	return marcador, nil
}

// Eliminar descarta el marcador; se invoca al completar la activación.
func (s *RedisStore) Eliminar(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, fmt.Sprintf(claveSesion, token))
}
