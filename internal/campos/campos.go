// Package campos agrupa las utilidades puras de formateo y limpieza de
// campos de formulario: fechas, alias de alternativas y texto libre.
package campos

import (
	"fmt"
	"strings"
	"time"
)

const (
	// FormatoFechaDB es el formato canónico de almacenamiento (YYYY-MM-DD).
	FormatoFechaDB = "2006-01-02"
	// FormatoFechaVista es el formato de presentación (DD/MM/YYYY).
	FormatoFechaVista = "02/01/2006"
)

// formatosEntrada son los formatos aceptados en los formularios. Los campos
// date del navegador llegan como YYYY-MM-DD; el panel administrativo puede
// reenviar el formato de vista.
var formatosEntrada = []string{FormatoFechaDB, FormatoFechaVista}

// parsearFecha interpreta una fecha en cualquiera de los formatos de
// entrada. time.Parse rechaza fechas de calendario imposibles (30/02 etc.).
func parsearFecha(fecha string) (time.Time, error) {
	fecha = strings.TrimSpace(fecha)
	for _, formato := range formatosEntrada {
		if t, err := time.Parse(formato, fecha); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha no válida: %q", fecha)
}

// EsFechaValida indica si la cadena representa una fecha real de calendario.
func EsFechaValida(fecha string) bool {
	_, err := parsearFecha(fecha)
	return err == nil
}

// FormatearFechaParaDB convierte una fecha de formulario al formato de
// almacenamiento. Falla si la entrada no es una fecha real.
func FormatearFechaParaDB(fecha string) (string, error) {
	t, err := parsearFecha(fecha)
	if err != nil {
		return "", err
	}
	return t.Format(FormatoFechaDB), nil
}

// FormatearFechaParaVista convierte una fecha de almacenamiento al formato
// de presentación. Una entrada vacía produce cadena vacía, no un error.
func FormatearFechaParaVista(fecha string) string {
	if fecha == "" {
		return ""
	}
	t, err := parsearFecha(fecha)
	if err != nil {
		return fecha
	}
	return t.Format(FormatoFechaVista)
}

// CalcularEdad calcula la edad en años cumplidos a la fecha de referencia,
// restando uno si el mes/día de referencia precede al de nacimiento.
func CalcularEdad(nacimiento, referencia time.Time) int {
	edad := referencia.Year() - nacimiento.Year()
	if referencia.Month() < nacimiento.Month() ||
		(referencia.Month() == nacimiento.Month() && referencia.Day() < nacimiento.Day()) {
		edad--
	}
	return edad
}

// mapeoAlternativas relaciona los alias cortos de la interfaz con los
// códigos canónicos de alternativa de etapa productiva.
var mapeoAlternativas = map[string]string{
	"contrato":  "contratoAprendizaje",
	"pasantia":  "pasantia",
	"apoyo":     "apoyoEntidades",
	"vinculo":   "vinculoLaboral",
	"proyectos": "proyectosProductivos",
	"monitoria": "monitoria",
	"unidades":  "unidadesProductivas",
}

// MapearAlternativa traduce un alias corto a su código canónico. Un valor
// sin alias conocido pasa sin cambios, de modo que los valores ya
// canónicos son idempotentes.
func MapearAlternativa(alternativa string) string {
	if canonica, ok := mapeoAlternativas[alternativa]; ok {
		return canonica
	}
	return alternativa
}

// EliminarCamposVacios retorna una copia del mapa sin las claves cuyo valor
// es cadena vacía. Se aplica antes de toda actualización parcial para que
// los campos omitidos o en blanco nunca sobrescriban valores almacenados.
func EliminarCamposVacios(objeto map[string]string) map[string]string {
	objetoLimpio := make(map[string]string, len(objeto))
	for clave, valor := range objeto {
		if valor != "" {
			objetoLimpio[clave] = valor
		}
	}
	return objetoLimpio
}

// reemplazadorTexto elimina los delimitadores de etiqueta y escapa el resto
// de caracteres con significado en HTML.
var reemplazadorTexto = strings.NewReplacer(
	"<", "",
	">", "",
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizarTexto recorta un campo de texto libre, elimina los delimitadores
// de etiqueta y escapa los demás caracteres con significado en HTML antes de
// almacenarlo.
func SanitizarTexto(texto string) string {
	if texto == "" {
		return ""
	}
	return reemplazadorTexto.Replace(strings.TrimSpace(texto))
}
