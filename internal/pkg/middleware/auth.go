package middleware

import (
	"context"
	"net/http"

	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/token"
)

// ContextKey es el tipo de las claves que este paquete anexa al contexto.
// Un tipo propio evita colisiones con claves string de otros paquetes.
type ContextKey int

const (
	// AdminClaimsKey almacena las claims del administrador autenticado.
	AdminClaimsKey ContextKey = iota
)

// AdminClaims representa los datos del administrador extraídos del JWT.
type AdminClaims struct {
	AdminID string
	Rol     string
}

// TokenService define el contrato de validación que necesita el middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware crea el middleware que valida el JWT del encabezado
// Authorization y anexa las claims al contexto. Todas las rutas /admin
// (excepto el login) pasan por aquí.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extraer el token del header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
				http.Error(w, apperror.NewUnauthorizedError("Token de autorización ausente o mal formado").Error(), http.StatusUnauthorized)
				return
			}

			tokenString := authHeader[7:]

			// 2. Validar el token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, apperror.NewUnauthorizedError("Token inválido o expirado").Error(), http.StatusUnauthorized)
				return
			}

			// 3. Anexar las claims al contexto
			adminClaims := AdminClaims{
				AdminID: claims.AdminID,
				Rol:     claims.Rol,
			}

			ctx := context.WithValue(r.Context(), AdminClaimsKey, adminClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetAdminClaimsFromContext extrae las claims del contexto en el handler.
func GetAdminClaimsFromContext(ctx context.Context) (AdminClaims, bool) {
	claims, ok := ctx.Value(AdminClaimsKey).(AdminClaims)
	return claims, ok
}
