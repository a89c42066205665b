package errors

import (
	"fmt"
	"net/http"
)

// AppError es la interfaz central para todos los errores tipados del sistema.
// Permite que la capa HTTP acceda a la categoría y al estado sugerido sin
// conocer el tipo concreto.
type AppError interface {
	Error() string    // Implementa la interfaz error estándar de Go
	Category() string // Categoría del error (e.g. "VALIDATION_ERROR", "NOT_FOUND")
	HTTPStatus() int  // Código HTTP sugerido para el handler
	Unwrap() error    // Permite encapsular el error subyacente
}

// ErrorCampo es un error de validación a nivel de campo. La pipeline de
// validación retorna la lista completa, no solo el primero.
type ErrorCampo struct {
	Campo   string `json:"field"`
	Mensaje string `json:"message"`
}

// --- Errores de dominio ---

// ValidationError representa fallas de validación de los datos de entrada.
// Lleva la lista ordenada de errores por campo.
type ValidationError struct {
	Msg     string
	Errores []ErrorCampo
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Errores de validación: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError crea un error de validación con sus errores de campo.
func NewValidationError(msg string, errores []ErrorCampo) *ValidationError {
	return &ValidationError{Msg: msg, Errores: errores}
}

// DuplicateEmailError indica que el correo electrónico ya está registrado.
// Lo produce tanto la verificación previa del flujo de registro como la
// violación de la restricción UNIQUE en la base de datos.
type DuplicateEmailError struct {
	Correo string
}

func (e *DuplicateEmailError) Error() string {
	return "El correo electrónico ya está registrado"
}
func (e *DuplicateEmailError) Category() string { return "DUPLICATE_EMAIL" }
func (e *DuplicateEmailError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *DuplicateEmailError) Unwrap() error    { return nil }

// NewDuplicateEmailError crea un error de correo duplicado.
func NewDuplicateEmailError(correo string) *DuplicateEmailError {
	return &DuplicateEmailError{Correo: correo}
}

// NotFoundError representa la ausencia del recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError crea un error de recurso no encontrado.
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{Msg: msg}
}

// AlreadyActivatedError indica que el aprendiz ya tiene contraseña
// establecida; la activación ocurre exactamente una vez.
type AlreadyActivatedError struct{}

func (e *AlreadyActivatedError) Error() string {
	return "El aprendiz ya tiene una contraseña establecida"
}
func (e *AlreadyActivatedError) Category() string { return "ALREADY_ACTIVATED" }
func (e *AlreadyActivatedError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *AlreadyActivatedError) Unwrap() error    { return nil }

// NewAlreadyActivatedError crea un error de activación repetida.
func NewAlreadyActivatedError() *AlreadyActivatedError {
	return &AlreadyActivatedError{}
}

// NothingToUpdateError indica que, tras eliminar los campos vacíos, no
// quedó ningún dato válido para actualizar.
type NothingToUpdateError struct{}

func (e *NothingToUpdateError) Error() string    { return "No hay datos válidos para actualizar" }
func (e *NothingToUpdateError) Category() string { return "NOTHING_TO_UPDATE" }
func (e *NothingToUpdateError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *NothingToUpdateError) Unwrap() error    { return nil }

// NewNothingToUpdateError crea un error de actualización vacía.
func NewNothingToUpdateError() *NothingToUpdateError {
	return &NothingToUpdateError{}
}

// NoSessionError indica que no existe marcador de sesión de registro; el
// flujo de creación de contraseña exige haber completado el registro.
type NoSessionError struct{}

func (e *NoSessionError) Error() string    { return "Sesión de registro no encontrada" }
func (e *NoSessionError) Category() string { return "NO_SESSION" }
func (e *NoSessionError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *NoSessionError) Unwrap() error    { return nil }

// NewNoSessionError crea un error de sesión ausente.
func NewNoSessionError() *NoSessionError {
	return &NoSessionError{}
}

// UnauthorizedError representa credenciales inválidas o token ausente en el
// área administrativa.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError crea un error de autorización.
func NewUnauthorizedError(msg string) *UnauthorizedError {
	return &UnauthorizedError{Msg: msg}
}

// --- Errores de infraestructura ---

// StorageUnavailableError indica que la base de datos no respondió dentro
// del tiempo límite o rechazó la conexión.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return "Servicio de almacenamiento no disponible"
}
func (e *StorageUnavailableError) Category() string { return "STORAGE_UNAVAILABLE" }
func (e *StorageUnavailableError) HTTPStatus() int  { return http.StatusServiceUnavailable } // 503
func (e *StorageUnavailableError) Unwrap() error    { return e.Err }

// NewStorageUnavailableError crea un error de almacenamiento no disponible.
func NewStorageUnavailableError(err error) *StorageUnavailableError {
	return &StorageUnavailableError{Err: err}
}

// InternalError representa fallas inesperadas en el servidor, servicio o
// repositorio.
type InternalError struct {
	Msg string
	Err error // Error original subyacente (e.g. error del driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Error interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError crea un error de servidor.
func NewInternalError(msg string, err error) *InternalError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError es un atajo para crear un InternalError específico de fallas
// en la base de datos.
func NewDBError(msg string, err error) *InternalError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Traducción final para el handler ---

// MapToHTTPStatus recibe un error y lo traduce al código HTTP, la categoría
// y el mensaje para la respuesta.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Error no tipado: tratarlo como interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocurrió un error inesperado"
}
