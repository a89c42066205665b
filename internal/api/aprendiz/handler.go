package aprendiz

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"etapaproductiva/internal/api/respuestas"
	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/logger"
	"etapaproductiva/internal/service/aprendizservice"
)

// cookieSesion es la cookie que transporta el token de la sesión de
// registro entre el formulario y la creación de contraseña.
const cookieSesion = "session_aprendiz"

// AprendizService define el contrato que el handler espera de la capa de
// servicio.
type AprendizService interface {
	Registrar(ctx context.Context, payload map[string]string) (aprendizservice.ResultadoRegistro, error)
	FormularioPassword(ctx context.Context, tokenSesion string) (domain.Aprendiz, error)
	CrearPassword(ctx context.Context, correo, password, tokenSesion string) error
}

// Handler agrupa los handlers del flujo público de registro y activación.
type Handler struct {
	Service    AprendizService
	Logger     logger.Logger
	Escritor   *respuestas.Escritor
	SessionTTL time.Duration
}

// NewHandler crea una nueva instancia del Handler.
func NewHandler(svc AprendizService, log logger.Logger, escritor *respuestas.Escritor, sessionTTL time.Duration) *Handler {
	return &Handler{
		Service:    svc,
		Logger:     log,
		Escritor:   escritor,
		SessionTTL: sessionTTL,
	}
}

// RegistrarHandler atiende POST /submit-form.
func (h *Handler) RegistrarHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := decodificarPayload(r)
	if err != nil {
		h.Escritor.Fallo(w, r, apperror.NewValidationError("Payload inválido. Verifique el formato del formulario.", nil))
		return
	}

	resultado, err := h.Service.Registrar(ctx, payload)
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	// El marcador de sesión viaja en una cookie httpOnly; el formulario de
	// contraseña lo exige.
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSesion,
		Value:    resultado.Token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.SessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})

	h.Escritor.Exito(w, http.StatusOK, "Aprendiz registrado exitosamente", map[string]interface{}{
		"id":       resultado.ID,
		"redirect": "/registro-exitoso",
	})
}

// FormularioPasswordHandler atiende GET /crear-password. Sin marcador de
// sesión responde 401 con redirect al inicio; con contraseña ya creada
// responde con redirect al dashboard.
func (h *Handler) FormularioPasswordHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	aprendiz, err := h.Service.FormularioPassword(ctx, tokenDeSesion(r))
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	h.Escritor.Exito(w, http.StatusOK, "Formulario de creación de contraseña", map[string]interface{}{
		"correoElectronico": aprendiz.CorreoElectronico,
		"nombres":           aprendiz.Nombres,
	})
}

// CrearPasswordHandler atiende POST /crear-password.
func (h *Handler) CrearPasswordHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := decodificarPayload(r)
	if err != nil {
		h.Escritor.Fallo(w, r, apperror.NewValidationError("Payload inválido. Verifique el formato del formulario.", nil))
		return
	}

	err = h.Service.CrearPassword(ctx, payload["correoElectronico"], payload["password"], tokenDeSesion(r))
	if err != nil {
		h.Escritor.Fallo(w, r, err)
		return
	}

	// La sesión de registro terminó; descartar la cookie.
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSesion,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	h.Escritor.Exito(w, http.StatusOK, "Contraseña creada con éxito", map[string]interface{}{
		"redirect": "/aprendiz/dashboard",
	})
}

// tokenDeSesion extrae el token de la cookie de sesión; cadena vacía si no
// existe.
func tokenDeSesion(r *http.Request) string {
	cookie, err := r.Cookie(cookieSesion)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// decodificarPayload acepta tanto formularios urlencoded como JSON y
// entrega un mapa campo->valor plano.
func decodificarPayload(r *http.Request) (map[string]string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var crudo map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&crudo); err != nil {
			return nil, err
		}
		payload := make(map[string]string, len(crudo))
		for clave, valor := range crudo {
			switch v := valor.(type) {
			case string:
				payload[clave] = v
			case float64:
				payload[clave] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				payload[clave] = strconv.FormatBool(v)
			}
		}
		return payload, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	payload := make(map[string]string, len(r.PostForm))
	for clave, valores := range r.PostForm {
		if len(valores) > 0 {
			payload[clave] = valores[0]
		}
	}
	return payload, nil
}
