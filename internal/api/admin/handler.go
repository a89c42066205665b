package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"etapaproductiva/internal/api/respuestas"
	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/logger"
)

// AdminService es el contrato de autenticación administrativa.
type AdminService interface {
	Login(ctx context.Context, correo string, password string) (string, error)
}

// AprendizAdminService es el contrato de gestión de aprendices que el panel
// administrativo consume.
type AprendizAdminService interface {
	Ver(ctx context.Context, id int64) (domain.Aprendiz, error)
	Actualizar(ctx context.Context, id int64, payload map[string]string) error
	Eliminar(ctx context.Context, id int64) error
	Listar(ctx context.Context, pagina int) (domain.PaginaAprendices, error)
	Buscar(ctx context.Context, criterios domain.CriteriosBusqueda) ([]domain.Aprendiz, error)
}

// Handler agrupa los handlers del panel administrativo.
type Handler struct {
	Admins     AdminService
	Aprendices AprendizAdminService
	Logger     logger.Logger
	Escritor   *respuestas.Escritor
}

// NewHandler crea una nueva instancia del Handler.
func NewHandler(admins AdminService, aprendices AprendizAdminService, log logger.Logger, escritor *respuestas.Escritor) *Handler {
	return &Handler{
		Admins:     admins,
		Aprendices: aprendices,
		Logger:     log,
		Escritor:   escritor,
	}
}

type credencialesLogin struct {
	Correo   string `json:"correo"`
	Password string `json:"password"`
}

// LoginHandler atiende POST /admin/login.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credenciales credencialesLogin
	if err := json.NewDecoder(r.Body).Decode(&credenciales); err != nil {
		h.Escritor.Fallo(w, r, apperror.NewValidationError("Payload inválido. Se espera JSON con correo y password.", nil))
		return
	}

	token, err := h.Admins.Login(r.Context(), credenciales.Correo, credenciales.Password)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Inicio de sesión exitoso", map[string]interface{}{
		"token": token,
	})
}

// ListarHandler atiende GET /admin/listar-aprendices?page=N.
func (h *Handler) ListarHandler(w http.ResponseWriter, r *http.Request) {
	pagina := 1
	if crudo := r.URL.Query().Get("page"); crudo != "" {
		valor, err := strconv.Atoi(crudo)
		if err != nil || valor < 1 {
			h.Escritor.Fallo(w, r, apperror.NewValidationError("Número de página inválido", []apperror.ErrorCampo{
				{Campo: "page", Mensaje: "Debe ser un entero mayor o igual a 1"},
			}))
			return
		}
		pagina = valor
	}

	resultado, err := h.Aprendices.Listar(r.Context(), pagina)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Listado de aprendices", resultado)
}

// VerHandler atiende GET /admin/aprendiz/{id}.
func (h *Handler) VerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := extraerID(r)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	aprendiz, err := h.Aprendices.Ver(r.Context(), id)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Detalle del aprendiz", aprendiz)
}

// EditarHandler atiende GET /admin/aprendiz/editar/{id}: retorna el registro
// con el que se prellena el formulario de edición.
func (h *Handler) EditarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := extraerID(r)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	aprendiz, err := h.Aprendices.Ver(r.Context(), id)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Formulario de edición", map[string]interface{}{
		"aprendiz":                    aprendiz,
		"tiposDocumento":              domain.TiposDocumento,
		"programasFormacion":          domain.ProgramasFormacion,
		"alternativasEtapaProductiva": domain.AlternativasEtapaProductiva,
	})
}

// ActualizarHandler atiende POST /admin/aprendiz/actualizar/{id}.
func (h *Handler) ActualizarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := extraerID(r)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	var payload map[string]string
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Escritor.Fallo(w, r, apperror.NewValidationError("Payload inválido. Se espera un objeto JSON plano.", nil))
		return
	}

	if err := h.Aprendices.Actualizar(r.Context(), id, payload); err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Aprendiz actualizado exitosamente", map[string]interface{}{
		"id": id,
	})
}

// EliminarHandler atiende DELETE /admin/aprendiz/eliminar/{id}.
func (h *Handler) EliminarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := extraerID(r)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	if err := h.Aprendices.Eliminar(r.Context(), id); err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Aprendiz eliminado exitosamente", nil)
}

// BuscarHandler atiende GET /admin/buscar-aprendices. Los criterios llegan
// como query params y se combinan con AND; sin criterios retorna la
// colección completa.
func (h *Handler) BuscarHandler(w http.ResponseWriter, r *http.Request) {
	consulta := r.URL.Query()
	criterios := domain.CriteriosBusqueda{
		Nombre:                  consulta.Get("nombre"),
		Documento:               consulta.Get("documento"),
		ProgramaFormacion:       consulta.Get("programaFormacion"),
		AlternativaSeleccionada: consulta.Get("alternativaSeleccionada"),
	}

	aprendices, err := h.Aprendices.Buscar(r.Context(), criterios)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Resultado de la búsqueda", map[string]interface{}{
		"aprendices": aprendices,
		"total":      len(aprendices),
	})
}

// extraerID parsea el segmento {id} de la ruta.
func extraerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NewValidationError("Identificador inválido", []apperror.ErrorCampo{
			{Campo: "id", Mensaje: "Debe ser un entero positivo"},
		})
	}
	return id, nil
}
