package router

import (
	"net/http"
	"time"

	"etapaproductiva/internal/api/admin"
	"etapaproductiva/internal/api/aprendiz"
	"etapaproductiva/internal/pkg/cache"
	"etapaproductiva/internal/pkg/middleware"
)

// Options agrupa las dependencias transversales del enrutador.
type Options struct {
	CacheClient          cache.Client
	TokenService         middleware.TokenService
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// NewRouter configura y retorna el enrutador HTTP principal. Recibe los
// handlers ya inicializados por inyección de dependencias.
func NewRouter(aprendizHandler *aprendiz.Handler, adminHandler *admin.Handler, opts Options) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Health check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- 2. Flujo público de registro y activación ---
	mux.HandleFunc("POST /submit-form", aprendizHandler.RegistrarHandler)
	mux.HandleFunc("GET /crear-password", aprendizHandler.FormularioPasswordHandler)
	mux.HandleFunc("POST /crear-password", aprendizHandler.CrearPasswordHandler)

	// --- 3. Panel administrativo ---
	// El login queda fuera del middleware de autenticación; todo lo demás
	// exige un JWT válido.
	auth := middleware.NewAuthMiddleware(opts.TokenService)

	mux.HandleFunc("POST /admin/login", adminHandler.LoginHandler)
	mux.HandleFunc("GET /admin/listar-aprendices", auth(adminHandler.ListarHandler))
	mux.HandleFunc("GET /admin/buscar-aprendices", auth(adminHandler.BuscarHandler))
	mux.HandleFunc("GET /admin/aprendiz/{id}", auth(adminHandler.VerHandler))
	mux.HandleFunc("GET /admin/aprendiz/editar/{id}", auth(adminHandler.EditarHandler))
	mux.HandleFunc("POST /admin/aprendiz/actualizar/{id}", auth(adminHandler.ActualizarHandler))
	mux.HandleFunc("DELETE /admin/aprendiz/eliminar/{id}", auth(adminHandler.EliminarHandler))

	// --- 4. Middlewares globales ---
	limiter := middleware.RateLimiter(opts.CacheClient, opts.RateLimitMaxRequests, opts.RateLimitPeriod)

	return limiter(mux)
}

// PingHandler es el health check del servicio.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
