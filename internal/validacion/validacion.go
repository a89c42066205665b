// Package validacion implementa la pipeline declarativa de validación de
// los datos de aprendiz. Opera sobre el mapa campo->valor crudo de la
// petición y produce la lista completa de errores por campo; nunca aplica
// efectos secundarios.
package validacion

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"etapaproductiva/internal/campos"
	"etapaproductiva/internal/domain"
	apperror "etapaproductiva/internal/errors"
)

// Modo controla qué campos se exigen.
type Modo int

const (
	// ModoCompleto exige todos los campos obligatorios (registro).
	ModoCompleto Modo = iota
	// ModoParcial valida solo los campos suministrados (actualización
	// administrativa); un campo suministrado debe cumplir su regla.
	ModoParcial
)

var (
	regexLetras  = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	regexDigitos = regexp.MustCompile(`^[0-9]+$`)
	regexEmail   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// regla asocia un campo con su validación. La función recibe el valor y el
// payload completo (para reglas cruzadas entre campos) y retorna el mensaje
// de error o cadena vacía.
type regla struct {
	campo     string
	requerido bool
	validar   func(valor string, payload map[string]string) string
}

// reglasAprendiz es el conjunto ordenado de reglas; el orden determina el
// orden de los errores reportados.
var reglasAprendiz = []regla{
	{"nombres", true, validarNombre("El nombre")},
	{"primerApellido", true, validarNombre("El primer apellido")},
	{"segundoApellido", false, func(v string, _ map[string]string) string {
		if !regexLetras.MatchString(v) {
			return "El apellido solo puede contener letras"
		}
		return ""
	}},
	{"tipoDocumento", true, validarEnum(domain.TiposDocumento, "Tipo de documento no válido")},
	{"numeroDocumento", true, func(v string, _ map[string]string) string {
		if !regexDigitos.MatchString(v) {
			return "El número de documento debe contener solo números"
		}
		if len(v) < 8 || len(v) > 22 {
			return "El número de documento debe tener entre 8 y 22 dígitos"
		}
		return ""
	}},
	{"fechaNacimiento", true, validarFechaNacimiento},
	{"celular", true, func(v string, _ map[string]string) string {
		if len(v) != 10 {
			return "El número de celular debe tener 10 dígitos"
		}
		if !regexDigitos.MatchString(v) {
			return "El número de celular debe contener solo números"
		}
		return ""
	}},
	{"direccion", true, validarLongitudMinima(5, "La dirección debe tener al menos 5 caracteres")},
	{"departamento", true, nil},
	{"municipio", true, nil},
	{"barrio", false, validarLongitudMinima(3, "El barrio debe tener al menos 3 caracteres")},
	{"correoElectronico", true, func(v string, _ map[string]string) string {
		if !regexEmail.MatchString(v) {
			return "Correo electrónico no válido"
		}
		return ""
	}},
	{"numeroFicha", true, func(v string, _ map[string]string) string {
		if !regexDigitos.MatchString(v) {
			return "El número de ficha debe contener solo números"
		}
		if len(v) != 7 {
			return "El número de ficha debe tener 7 dígitos"
		}
		return ""
	}},
	{"programaFormacion", true, validarEnum(domain.ProgramasFormacion, "Programa de formación no válido")},
	{"alternativaSeleccionada", true, func(v string, _ map[string]string) string {
		// Se aceptan los alias cortos de la interfaz; el servicio los
		// canoniza antes de almacenar.
		canonica := campos.MapearAlternativa(v)
		for _, alternativa := range domain.AlternativasEtapaProductiva {
			if canonica == alternativa {
				return ""
			}
		}
		return "Alternativa seleccionada no válida"
	}},
	{"empresaPatrocinadora", false, validarLongitudMinima(3, "El nombre de la empresa debe tener al menos 3 caracteres")},
	{"correoEmpresa", false, func(v string, _ map[string]string) string {
		if !regexEmail.MatchString(v) {
			return "Correo de empresa no válido"
		}
		return ""
	}},
	{"telefonoEmpresa", false, func(v string, _ map[string]string) string {
		if !regexDigitos.MatchString(v) || len(v) < 7 || len(v) > 15 {
			return "Teléfono de empresa no válido"
		}
		return ""
	}},
	{"direccionEmpresa", false, validarLongitudMinima(5, "La dirección de la empresa debe tener al menos 5 caracteres")},
	{"jefeInmediato", false, validarLongitudMinima(3, "El nombre del jefe inmediato debe tener al menos 3 caracteres")},
	{"fechaInicioFormacion", false, validarFecha("Fecha de inicio de formación no válida")},
	{"fechaInicioLectiva", false, validarFecha("Fecha de inicio de etapa lectiva no válida")},
	{"fechaFinLectiva", false, validarFechaFin("fechaInicioLectiva",
		"Fecha de fin de etapa lectiva no válida",
		"La fecha de fin lectiva debe ser posterior a la fecha de inicio")},
	{"fechaInicioProductiva", false, validarFecha("Fecha de inicio de etapa productiva no válida")},
	{"fechaFinProductiva", false, validarFechaFin("fechaInicioProductiva",
		"Fecha de fin de etapa productiva no válida",
		"La fecha de fin productiva debe ser posterior a la fecha de inicio")},
}

// mensajesObligatorio contiene los mensajes de campo requerido ausente.
var mensajesObligatorio = map[string]string{
	"nombres":                 "El nombre es obligatorio",
	"primerApellido":          "El primer apellido es obligatorio",
	"tipoDocumento":           "El tipo de documento es obligatorio",
	"numeroDocumento":         "El número de documento es obligatorio",
	"fechaNacimiento":         "La fecha de nacimiento es obligatoria",
	"celular":                 "El número de celular es obligatorio",
	"direccion":               "La dirección es obligatoria",
	"departamento":            "El departamento es obligatorio",
	"municipio":               "El municipio es obligatorio",
	"correoElectronico":       "El correo electrónico es obligatorio",
	"numeroFicha":             "El número de ficha es obligatorio",
	"programaFormacion":       "El programa de formación es obligatorio",
	"alternativaSeleccionada": "La alternativa seleccionada es obligatoria",
}

// ValidarAprendiz aplica el conjunto de reglas al payload en el modo
// indicado y retorna la lista ordenada de errores de campo; la lista vacía
// significa payload aceptado.
func ValidarAprendiz(payload map[string]string, modo Modo) []apperror.ErrorCampo {
	var errores []apperror.ErrorCampo

	for _, r := range reglasAprendiz {
		valor := strings.TrimSpace(payload[r.campo])

		if valor == "" {
			// Campo ausente o en blanco: solo el modo completo exige los
			// obligatorios; en modo parcial nunca es un error.
			if modo == ModoCompleto && r.requerido {
				errores = append(errores, apperror.ErrorCampo{
					Campo:   r.campo,
					Mensaje: mensajesObligatorio[r.campo],
				})
			}
			continue
		}

		if r.validar == nil {
			continue
		}

		if mensaje := r.validar(valor, payload); mensaje != "" {
			errores = append(errores, apperror.ErrorCampo{Campo: r.campo, Mensaje: mensaje})
		}
	}

	return errores
}

// ValidarFiltros valida los criterios de la búsqueda administrativa.
func ValidarFiltros(criterios domain.CriteriosBusqueda) []apperror.ErrorCampo {
	var errores []apperror.ErrorCampo

	if criterios.Nombre != "" && len([]rune(criterios.Nombre)) < 2 {
		errores = append(errores, apperror.ErrorCampo{
			Campo:   "nombre",
			Mensaje: "El término de búsqueda debe tener al menos 2 caracteres",
		})
	}
	if criterios.Documento != "" && !regexDigitos.MatchString(criterios.Documento) {
		errores = append(errores, apperror.ErrorCampo{
			Campo:   "documento",
			Mensaje: "Número de documento no válido",
		})
	}
	if criterios.ProgramaFormacion != "" && !contiene(domain.ProgramasFormacion, criterios.ProgramaFormacion) {
		errores = append(errores, apperror.ErrorCampo{
			Campo:   "programaFormacion",
			Mensaje: "Programa de formación no válido",
		})
	}
	if criterios.AlternativaSeleccionada != "" && !contiene(domain.AlternativasEtapaProductiva, criterios.AlternativaSeleccionada) {
		errores = append(errores, apperror.ErrorCampo{
			Campo:   "alternativaSeleccionada",
			Mensaje: "Alternativa no válida",
		})
	}

	return errores
}

// --- Constructores de reglas ---

func validarNombre(etiqueta string) func(string, map[string]string) string {
	return func(v string, _ map[string]string) string {
		if len([]rune(v)) < 2 {
			return fmt.Sprintf("%s debe tener al menos 2 caracteres", etiqueta)
		}
		if !regexLetras.MatchString(v) {
			return fmt.Sprintf("%s solo puede contener letras", etiqueta)
		}
		return ""
	}
}

func validarLongitudMinima(minimo int, mensaje string) func(string, map[string]string) string {
	return func(v string, _ map[string]string) string {
		if len([]rune(v)) < minimo {
			return mensaje
		}
		return ""
	}
}

func validarEnum(valores []string, mensaje string) func(string, map[string]string) string {
	return func(v string, _ map[string]string) string {
		if !contiene(valores, v) {
			return mensaje
		}
		return ""
	}
}

func validarFecha(mensaje string) func(string, map[string]string) string {
	return func(v string, _ map[string]string) string {
		if !campos.EsFechaValida(v) {
			return mensaje
		}
		return ""
	}
}

// validarFechaFin valida la fecha y exige que sea estrictamente posterior a
// la fecha de inicio correspondiente cuando ambas están presentes.
func validarFechaFin(campoInicio, mensajeFecha, mensajeOrden string) func(string, map[string]string) string {
	return func(v string, payload map[string]string) string {
		fin, err := campos.FormatearFechaParaDB(v)
		if err != nil {
			return mensajeFecha
		}

		valorInicio := strings.TrimSpace(payload[campoInicio])
		if valorInicio == "" {
			return ""
		}
		inicio, err := campos.FormatearFechaParaDB(valorInicio)
		if err != nil {
			// La fecha de inicio inválida se reporta en su propia regla.
			return ""
		}

		tFin, _ := time.Parse(campos.FormatoFechaDB, fin)
		tInicio, _ := time.Parse(campos.FormatoFechaDB, inicio)
		if !tFin.After(tInicio) {
			return mensajeOrden
		}
		return ""
	}
}

func validarFechaNacimiento(v string, _ map[string]string) string {
	normalizada, err := campos.FormatearFechaParaDB(v)
	if err != nil {
		return "Fecha de nacimiento no válida"
	}
	nacimiento, _ := time.Parse(campos.FormatoFechaDB, normalizada)
	if campos.CalcularEdad(nacimiento, time.Now()) < 10 {
		return "Debe ser mayor de 10 años"
	}
	return ""
}

func contiene(valores []string, valor string) bool {
	for _, v := range valores {
		if v == valor {
			return true
		}
	}
	return false
}
