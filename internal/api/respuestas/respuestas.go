// Package respuestas estandariza el sobre JSON de todas las respuestas
// HTTP: {success, message, data?, errors?, timestamp}.
package respuestas

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/logger"
)

// Respuesta es el sobre uniforme de la API.
type Respuesta struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Data      interface{}           `json:"data,omitempty"`
	Errors    []apperror.ErrorCampo `json:"errors,omitempty"`
	Error     string                `json:"error,omitempty"`
	Timestamp string                `json:"timestamp"`
}

// Escritor centraliza la escritura de respuestas y el mapeo de errores
// tipados a estados HTTP. Se inyecta en los handlers.
type Escritor struct {
	Logger     logger.Logger
	Desarrollo bool // en desarrollo las respuestas incluyen el detalle del error
}

// NewEscritor crea un escritor de respuestas.
func NewEscritor(log logger.Logger, desarrollo bool) *Escritor {
	return &Escritor{Logger: log, Desarrollo: desarrollo}
}

// Exito escribe una respuesta exitosa con el sobre uniforme.
func (e *Escritor) Exito(w http.ResponseWriter, status int, mensaje string, data interface{}) {
	respuesta := Respuesta{
		Success:   true,
		Message:   mensaje,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(respuesta); err != nil {
		e.Logger.Error("Falla al codificar la respuesta JSON", err)
	}
}

// Fallo traduce un error (tipado o no) al sobre uniforme. Los errores de
// servidor se registran con su causa raíz; al cliente solo llega el
// mensaje genérico salvo en modo desarrollo.
func (e *Escritor) Fallo(w http.ResponseWriter, r *http.Request, err error) {
	status, categoria, mensaje := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		e.Logger.Error("Error de servidor: "+categoria, err)
		if !e.Desarrollo {
			mensaje = "Error interno del servidor"
		}
	} else {
		e.Logger.Debug("Petición rechazada.", map[string]interface{}{
			"path":      r.URL.Path,
			"status":    status,
			"categoria": categoria,
		})
	}

	respuesta := Respuesta{
		Success:   false,
		Message:   mensaje,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	// Los errores de validación entregan la lista completa de campos.
	var validacionErr *apperror.ValidationError
	if errors.As(err, &validacionErr) {
		respuesta.Errors = validacionErr.Errores
	}

	if e.Desarrollo && status >= 500 {
		respuesta.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(respuesta); encodeErr != nil {
		e.Logger.Error("Falla al codificar la respuesta de error", encodeErr)
	}
}
