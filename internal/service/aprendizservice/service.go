// Package aprendizservice contiene la lógica de negocio del ciclo de vida
// del aprendiz: registro, activación de contraseña y gestión
// administrativa. Toda operación valida y normaliza antes de delegar en el
// repositorio; el servicio nunca toca la base de datos directamente.
package aprendizservice

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"etapaproductiva/internal/campos"
	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
	"etapaproductiva/internal/pkg/logger"
	"etapaproductiva/internal/pkg/sesion"
	"etapaproductiva/internal/validacion"
)

// costoBcrypt es el factor de costo del hash de contraseñas.
const costoBcrypt = 10

// camposFecha son los campos que requieren formateo de fecha.
var camposFecha = []string{
	"fechaNacimiento",
	"fechaInicioFormacion",
	"fechaInicioLectiva",
	"fechaFinLectiva",
	"fechaInicioProductiva",
	"fechaFinProductiva",
}

// camposTextoLibre son los campos que se sanitizan antes de almacenar.
var camposTextoLibre = []string{
	"direccion",
	"barrio",
	"empresaPatrocinadora",
	"direccionEmpresa",
	"jefeInmediato",
}

// ResultadoRegistro es la salida del registro exitoso.
type ResultadoRegistro struct {
	ID    int64
	Token string // token opaco de la sesión de registro
}

// Service implementa los flujos de registro, activación y administración.
type Service struct {
	repo     domain.AprendizRepository
	sesiones sesion.Store
	pageSize int
	logger   logger.Logger
}

// NewService crea una nueva instancia del servicio de aprendices.
func NewService(repo domain.AprendizRepository, sesiones sesion.Store, pageSize int, logger logger.Logger) *Service {
	return &Service{
		repo:     repo,
		sesiones: sesiones,
		pageSize: pageSize,
		logger:   logger,
	}
}

// --- Flujo de registro y activación ---

// Registrar ejecuta el registro completo: validación en modo completo,
// normalización, verificación de correo duplicado, inserción y marcador de
// sesión. La verificación previa del correo es la vía rápida; la
// restricción UNIQUE de la base de datos respalda la carrera entre dos
// registros concurrentes con el mismo correo.
func (s *Service) Registrar(ctx context.Context, payload map[string]string) (ResultadoRegistro, error) {
	s.logger.Debug("Iniciando registro de aprendiz.", map[string]interface{}{"correo": payload["correoElectronico"]})

	if errores := validacion.ValidarAprendiz(payload, validacion.ModoCompleto); len(errores) > 0 {
		s.logger.Debug("Registro rechazado por validación.", map[string]interface{}{"errores": len(errores)})
		return ResultadoRegistro{}, apperror.NewValidationError("Errores de validación", errores)
	}

	normalizado, err := s.normalizar(payload)
	if err != nil {
		return ResultadoRegistro{}, err
	}
	correo := normalizado["correoElectronico"]

	// Vía rápida: rechazar el correo ya registrado antes de insertar.
	_, err = s.repo.BuscarPorCorreo(ctx, correo)
	if err == nil {
		s.logger.Info("Registro rechazado: correo ya registrado.", map[string]interface{}{"correo": correo})
		return ResultadoRegistro{}, apperror.NewDuplicateEmailError(correo)
	}
	var noEncontrado *apperror.NotFoundError
	if !errors.As(err, &noEncontrado) {
		return ResultadoRegistro{}, err
	}

	id, err := s.repo.Crear(ctx, normalizado)
	if err != nil {
		return ResultadoRegistro{}, err
	}

	token, err := s.sesiones.Crear(ctx, correo)
	if err != nil {
		// La fila quedó insertada; sin marcador el aprendiz no puede seguir
		// al formulario de contraseña, así que el registro se reporta fallido.
		s.logger.Error("Falla al guardar la sesión de registro.", err)
		return ResultadoRegistro{}, err
	}

	s.logger.Info("Aprendiz registrado.", map[string]interface{}{"id": id, "correo": correo})
	return ResultadoRegistro{ID: id, Token: token}, nil
}

// FormularioPassword verifica que exista marcador de sesión y que el
// aprendiz aún no tenga contraseña; retorna el registro para prellenar el
// formulario.
func (s *Service) FormularioPassword(ctx context.Context, tokenSesion string) (domain.Aprendiz, error) {
	marcador, err := s.sesiones.Obtener(ctx, tokenSesion)
	if err != nil {
		return domain.Aprendiz{}, err
	}
	if !marcador.RegistroCompleto {
		return domain.Aprendiz{}, apperror.NewNoSessionError()
	}

	aprendiz, err := s.repo.BuscarPorCorreo(ctx, marcador.Correo)
	if err != nil {
		return domain.Aprendiz{}, err
	}

	if aprendiz.TienePassword() {
		// El llamador redirige al dashboard del aprendiz.
		return domain.Aprendiz{}, apperror.NewAlreadyActivatedError()
	}

	return aprendiz, nil
}

// CrearPassword establece la contraseña del aprendiz exactamente una vez.
// Una segunda invocación siempre falla con AlreadyActivated: nunca
// sobrescribe el hash existente.
func (s *Service) CrearPassword(ctx context.Context, correo, password, tokenSesion string) error {
	if correo == "" || password == "" {
		return apperror.NewValidationError("Correo electrónico y contraseña son requeridos", []apperror.ErrorCampo{
			{Campo: "correoElectronico", Mensaje: "Correo electrónico y contraseña son requeridos"},
		})
	}

	aprendiz, err := s.repo.BuscarPorCorreo(ctx, correo)
	if err != nil {
		return err
	}

	if aprendiz.TienePassword() {
		s.logger.Info("Intento de activación repetida.", map[string]interface{}{"correo": correo})
		return apperror.NewAlreadyActivatedError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), costoBcrypt)
	if err != nil {
		return apperror.NewInternalError("Falla al generar el hash de la contraseña", err)
	}

	if err := s.repo.ActualizarPassword(ctx, correo, string(hash)); err != nil {
		return err
	}

	// El marcador de registro ya cumplió su propósito.
	if tokenSesion != "" {
		if err := s.sesiones.Eliminar(ctx, tokenSesion); err != nil {
			s.logger.Warn("Falla al eliminar la sesión de registro.", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("Contraseña creada.", map[string]interface{}{"correo": correo})
	return nil
}

// --- Flujo administrativo ---

// Ver retorna un aprendiz por ID con las fechas en formato de presentación.
func (s *Service) Ver(ctx context.Context, id int64) (domain.Aprendiz, error) {
	aprendiz, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return domain.Aprendiz{}, err
	}
	return formatearParaVista(aprendiz), nil
}

// Actualizar aplica una actualización parcial: validación en modo parcial,
// normalización, eliminación de campos vacíos y actualización por ID. Los
// campos omitidos o en blanco nunca sobrescriben valores almacenados.
func (s *Service) Actualizar(ctx context.Context, id int64, payload map[string]string) error {
	if errores := validacion.ValidarAprendiz(payload, validacion.ModoParcial); len(errores) > 0 {
		return apperror.NewValidationError("Errores de validación", errores)
	}

	normalizado, err := s.normalizar(payload)
	if err != nil {
		return err
	}

	limpio := campos.EliminarCamposVacios(normalizado)
	if len(limpio) == 0 {
		return apperror.NewNothingToUpdateError()
	}

	if err := s.repo.Actualizar(ctx, id, limpio); err != nil {
		return err
	}

	s.logger.Info("Aprendiz actualizado desde el panel.", map[string]interface{}{"id": id})
	return nil
}

// Eliminar borra el aprendiz por ID.
func (s *Service) Eliminar(ctx context.Context, id int64) error {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Aprendiz eliminado desde el panel.", map[string]interface{}{"id": id})
	return nil
}

// Listar retorna la página solicitada del listado administrativo, con las
// fechas formateadas para presentación y los programas presentes para los
// filtros.
func (s *Service) Listar(ctx context.Context, pagina int) (domain.PaginaAprendices, error) {
	if pagina < 1 {
		pagina = 1
	}

	aprendices, total, err := s.repo.Listar(ctx, pagina, s.pageSize)
	if err != nil {
		return domain.PaginaAprendices{}, err
	}

	programas, err := s.repo.ProgramasDistintos(ctx)
	if err != nil {
		return domain.PaginaAprendices{}, err
	}

	for i := range aprendices {
		aprendices[i] = formatearParaVista(aprendices[i])
	}

	totalPaginas := (total + s.pageSize - 1) / s.pageSize

	return domain.PaginaAprendices{
		Aprendices:         aprendices,
		PaginaActual:       pagina,
		TotalPaginas:       totalPaginas,
		TotalRegistros:     total,
		Limite:             s.pageSize,
		ProgramasFormacion: programas,
	}, nil
}

// Buscar ejecuta la búsqueda administrativa. Sin criterios retorna la
// colección completa, comportamiento heredado del listado "mostrar todo".
func (s *Service) Buscar(ctx context.Context, criterios domain.CriteriosBusqueda) ([]domain.Aprendiz, error) {
	if errores := validacion.ValidarFiltros(criterios); len(errores) > 0 {
		return nil, apperror.NewValidationError("Errores de validación", errores)
	}

	aprendices, err := s.repo.Buscar(ctx, criterios)
	if err != nil {
		return nil, err
	}

	for i := range aprendices {
		aprendices[i] = formatearParaVista(aprendices[i])
	}

	return aprendices, nil
}

// --- Auxiliares ---

// normalizar produce el mapa listo para almacenamiento: correo en
// minúsculas, alternativa canónica, fechas en formato de almacenamiento y
// texto libre sanitizado. Opera sobre una copia; el payload de entrada no
// se modifica.
func (s *Service) normalizar(payload map[string]string) (map[string]string, error) {
	normalizado := make(map[string]string, len(payload))
	for clave, valor := range payload {
		normalizado[clave] = strings.TrimSpace(valor)
	}

	for _, campo := range camposTextoLibre {
		if valor, presente := normalizado[campo]; presente && valor != "" {
			normalizado[campo] = campos.SanitizarTexto(valor)
		}
	}

	if correo, presente := normalizado["correoElectronico"]; presente && correo != "" {
		normalizado["correoElectronico"] = strings.ToLower(correo)
	}

	if alternativa, presente := normalizado["alternativaSeleccionada"]; presente && alternativa != "" {
		normalizado["alternativaSeleccionada"] = campos.MapearAlternativa(alternativa)
	}

	for _, campo := range camposFecha {
		valor, presente := normalizado[campo]
		if !presente || valor == "" {
			continue
		}
		enFormatoDB, err := campos.FormatearFechaParaDB(valor)
		if err != nil {
			// La pipeline de validación ya rechazó las fechas inválidas;
			// llegar aquí es un defecto de programación.
			return nil, apperror.NewInternalError("Fecha inválida tras la validación", err)
		}
		normalizado[campo] = enFormatoDB
	}

	return normalizado, nil
}

// formatearParaVista convierte las fechas del registro al formato de
// presentación DD/MM/YYYY.
func formatearParaVista(a domain.Aprendiz) domain.Aprendiz {
	a.FechaNacimiento = campos.FormatearFechaParaVista(a.FechaNacimiento)
	a.FechaInicioFormacion = campos.FormatearFechaParaVista(a.FechaInicioFormacion)
	a.FechaInicioLectiva = campos.FormatearFechaParaVista(a.FechaInicioLectiva)
	a.FechaFinLectiva = campos.FormatearFechaParaVista(a.FechaFinLectiva)
	a.FechaInicioProductiva = campos.FormatearFechaParaVista(a.FechaInicioProductiva)
	a.FechaFinProductiva = campos.FormatearFechaParaVista(a.FechaFinProductiva)
	return a
}
