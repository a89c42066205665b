package aprendizrepo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperror "etapaproductiva/internal/errors"
)

// TestEsCorreoDuplicado solo la violación de unicidad del driver (23505) se
// traduce a correo duplicado.
func TestEsCorreoDuplicado(t *testing.T) {
	assert.True(t, esCorreoDuplicado(&pq.Error{Code: "23505"}))
	assert.False(t, esCorreoDuplicado(&pq.Error{Code: "23502"}))
	assert.False(t, esCorreoDuplicado(errors.New("falla genérica")))
	assert.False(t, esCorreoDuplicado(nil))
}

// TestClasificarError_AlmacenamientoNoDisponible timeout, cancelación y
// conexión cerrada se reportan como almacenamiento no disponible (503).
func TestClasificarError_AlmacenamientoNoDisponible(t *testing.T) {
	repo := &AprendizRepository{}

	for _, err := range []error{context.DeadlineExceeded, context.Canceled, sql.ErrConnDone} {
		var noDisponible *apperror.StorageUnavailableError
		assert.ErrorAs(t, repo.clasificarError("Falla al insertar aprendiz", err), &noDisponible, "error %v", err)
	}
}

// TestClasificarError_FallaDelDriver cualquier otra falla del driver queda
// como error interno (500).
func TestClasificarError_FallaDelDriver(t *testing.T) {
	repo := &AprendizRepository{}

	clasificado := repo.clasificarError("Falla al insertar aprendiz", errors.New("syntax error"))

	var interno *apperror.InternalError
	assert.ErrorAs(t, clasificado, &interno)
}
