package domain

import (
	"context"
	"time"
)

// Aprendiz representa a un participante del programa de etapa productiva,
// desde su registro inicial hasta la finalización de la etapa.
//
// Las fechas se manejan como texto en formato de almacenamiento
// (YYYY-MM-DD); la capa de servicio las convierte a formato de
// presentación (DD/MM/YYYY) antes de entregarlas al panel administrativo.
type Aprendiz struct {
	ID              int64  `json:"id"`
	Nombres         string `json:"nombres"`
	PrimerApellido  string `json:"primerApellido"`
	SegundoApellido string `json:"segundoApellido,omitempty"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	FechaNacimiento string `json:"fechaNacimiento"`
	Celular         string `json:"celular"`
	Direccion       string `json:"direccion"`
	Departamento    string `json:"departamento"`
	Municipio       string `json:"municipio"`
	Barrio          string `json:"barrio,omitempty"`

	CorreoElectronico string `json:"correoElectronico"`
	NumeroFicha       string `json:"numeroFicha"`
	ProgramaFormacion string `json:"programaFormacion"`

	// Etapa productiva
	AlternativaSeleccionada string `json:"alternativaSeleccionada"`
	EmpresaPatrocinadora    string `json:"empresaPatrocinadora,omitempty"`
	CorreoEmpresa           string `json:"correoEmpresa,omitempty"`
	TelefonoEmpresa         string `json:"telefonoEmpresa,omitempty"`
	DireccionEmpresa        string `json:"direccionEmpresa,omitempty"`
	JefeInmediato           string `json:"jefeInmediato,omitempty"`

	// Hitos de la etapa. Opcionales; cuando un par Inicio/Fin está
	// completo, la fecha Fin es estrictamente posterior.
	FechaInicioFormacion  string `json:"fechaInicioFormacion,omitempty"`
	FechaInicioLectiva    string `json:"fechaInicioLectiva,omitempty"`
	FechaFinLectiva       string `json:"fechaFinLectiva,omitempty"`
	FechaInicioProductiva string `json:"fechaInicioProductiva,omitempty"`
	FechaFinProductiva    string `json:"fechaFinProductiva,omitempty"`

	// PasswordHash es nulo (cadena vacía) hasta que el flujo de activación
	// lo establece, exactamente una vez. Nunca se serializa.
	PasswordHash string `json:"-"`

	CreadoEn      time.Time `json:"creadoEn,omitempty"`
	ActualizadoEn time.Time `json:"actualizadoEn,omitempty"`
}

// TienePassword indica si el aprendiz ya completó el flujo de activación.
func (a Aprendiz) TienePassword() bool {
	return a.PasswordHash != ""
}

// Valores cerrados de los campos enumerados.

// TiposDocumento son los tipos de documento de identidad aceptados.
var TiposDocumento = []string{"CC", "TI", "CE", "PEP", "PPT"}

// ProgramasFormacion son los programas de formación válidos.
var ProgramasFormacion = []string{
	"tecnoActividadFisica",
	"tecnoEntrenamientoDeportivo",
}

// AlternativasEtapaProductiva son los 7 códigos canónicos de alternativa.
// El almacenamiento siempre contiene uno de estos valores, nunca un alias
// corto de la interfaz.
var AlternativasEtapaProductiva = []string{
	"contratoAprendizaje",
	"pasantia",
	"apoyoEntidades",
	"vinculoLaboral",
	"proyectosProductivos",
	"monitoria",
	"unidadesProductivas",
}

// CriteriosBusqueda es el conjunto disperso de predicados opcionales de la
// búsqueda administrativa. Los criterios presentes se combinan con AND;
// sin criterios la búsqueda retorna la colección completa.
type CriteriosBusqueda struct {
	Nombre                  string // subcadena, sin distinción de mayúsculas, sobre nombres y apellidos
	Documento               string // igualdad exacta
	ProgramaFormacion       string // igualdad exacta
	AlternativaSeleccionada string // igualdad exacta
}

// Vacios indica si no se suministró ningún criterio.
func (c CriteriosBusqueda) Vacios() bool {
	return c.Nombre == "" && c.Documento == "" &&
		c.ProgramaFormacion == "" && c.AlternativaSeleccionada == ""
}

// PaginaAprendices es el resultado del listado paginado.
type PaginaAprendices struct {
	Aprendices         []Aprendiz `json:"aprendices"`
	PaginaActual       int        `json:"currentPage"`
	TotalPaginas       int        `json:"totalPages"`
	TotalRegistros     int        `json:"totalRecords"`
	Limite             int        `json:"limit"`
	ProgramasFormacion []string   `json:"programasFormacion"`
}

// --- Contratos entre capas ---

// AprendizRepository define el contrato de persistencia de la entidad
// Aprendiz. Es el único componente que toca la tabla aprendices.
type AprendizRepository interface {
	// Crear inserta una fila a partir de un mapa campo->valor ya validado y
	// normalizado. Solo se escriben columnas de la lista permitida.
	Crear(ctx context.Context, campos map[string]string) (int64, error)
	BuscarPorID(ctx context.Context, id int64) (Aprendiz, error)
	BuscarPorCorreo(ctx context.Context, correo string) (Aprendiz, error)
	// Actualizar aplica una actualización parcial; el llamador ya eliminó
	// los campos vacíos.
	Actualizar(ctx context.Context, id int64, campos map[string]string) error
	ActualizarPassword(ctx context.Context, correo string, hash string) error
	Eliminar(ctx context.Context, id int64) error
	Listar(ctx context.Context, pagina int, tamano int) ([]Aprendiz, int, error)
	Buscar(ctx context.Context, criterios CriteriosBusqueda) ([]Aprendiz, error)
	ProgramasDistintos(ctx context.Context) ([]string, error)
}
