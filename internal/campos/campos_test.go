package campos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"etapaproductiva/internal/campos"
)

// TestFormatearFechaParaDB_FormatoVista convierte DD/MM/YYYY al formato de
// almacenamiento.
func TestFormatearFechaParaDB_FormatoVista(t *testing.T) {
	resultado, err := campos.FormatearFechaParaDB("15/05/2000")

	assert.NoError(t, err)
	assert.Equal(t, "2000-05-15", resultado)
}

// TestFormatearFechaParaDB_FormatoDB acepta la entrada ya canónica sin
// alterarla.
func TestFormatearFechaParaDB_FormatoDB(t *testing.T) {
	resultado, err := campos.FormatearFechaParaDB("2000-05-15")

	assert.NoError(t, err)
	assert.Equal(t, "2000-05-15", resultado)
}

// TestFormatearFechaParaDB_FechaImposible rechaza fechas que no existen en
// el calendario.
func TestFormatearFechaParaDB_FechaImposible(t *testing.T) {
	casos := []string{"2025-02-30", "31/04/2024", "no-es-fecha", ""}

	for _, caso := range casos {
		_, err := campos.FormatearFechaParaDB(caso)
		assert.Error(t, err, "se esperaba error para %q", caso)
	}
}

// TestFormatearFechaParaVista_IdaYVuelta la conversión a vista y de regreso
// preserva la fecha.
func TestFormatearFechaParaVista_IdaYVuelta(t *testing.T) {
	vista := campos.FormatearFechaParaVista("2024-01-09")
	assert.Equal(t, "09/01/2024", vista)

	db, err := campos.FormatearFechaParaDB(vista)
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-09", db)
}

// TestFormatearFechaParaVista_Vacia una entrada vacía produce cadena vacía.
func TestFormatearFechaParaVista_Vacia(t *testing.T) {
	assert.Equal(t, "", campos.FormatearFechaParaVista(""))
}

// TestEsFechaValida cubre los dos formatos de entrada y los rechazos.
func TestEsFechaValida(t *testing.T) {
	assert.True(t, campos.EsFechaValida("2024-02-29")) // año bisiesto
	assert.True(t, campos.EsFechaValida("29/02/2024"))
	assert.False(t, campos.EsFechaValida("2023-02-29"))
	assert.False(t, campos.EsFechaValida("32/01/2024"))
}

// TestCalcularEdad_LimiteCumpleanos la edad cambia exactamente el día del
// cumpleaños.
func TestCalcularEdad_LimiteCumpleanos(t *testing.T) {
	nacimiento := time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC)

	diaAntes := time.Date(2020, time.June, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, campos.CalcularEdad(nacimiento, diaAntes))

	mismoDia := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, campos.CalcularEdad(nacimiento, mismoDia))

	mesAnterior := time.Date(2020, time.May, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, campos.CalcularEdad(nacimiento, mesAnterior))
}

// TestMapearAlternativa_Alias todos los alias cortos se traducen al código
// canónico.
func TestMapearAlternativa_Alias(t *testing.T) {
	casos := map[string]string{
		"contrato":  "contratoAprendizaje",
		"pasantia":  "pasantia",
		"apoyo":     "apoyoEntidades",
		"vinculo":   "vinculoLaboral",
		"proyectos": "proyectosProductivos",
		"monitoria": "monitoria",
		"unidades":  "unidadesProductivas",
	}

	for alias, esperado := range casos {
		assert.Equal(t, esperado, campos.MapearAlternativa(alias))
	}
}

// TestMapearAlternativa_Idempotente un código ya canónico pasa sin cambios.
func TestMapearAlternativa_Idempotente(t *testing.T) {
	assert.Equal(t, "contratoAprendizaje", campos.MapearAlternativa("contratoAprendizaje"))
	assert.Equal(t, "unidadesProductivas", campos.MapearAlternativa("unidadesProductivas"))
	assert.Equal(t, "otraCosa", campos.MapearAlternativa("otraCosa"))
}

// TestEliminarCamposVacios descarta solo las claves con valor vacío y no
// modifica el mapa original.
func TestEliminarCamposVacios(t *testing.T) {
	original := map[string]string{
		"nombres":  "Ana",
		"barrio":   "",
		"celular":  "3001234567",
		"telefono": "",
	}

	limpio := campos.EliminarCamposVacios(original)

	assert.Equal(t, map[string]string{"nombres": "Ana", "celular": "3001234567"}, limpio)
	assert.Len(t, original, 4)
}

// TestSanitizarTexto elimina etiquetas y escapa los caracteres con
// significado en HTML.
func TestSanitizarTexto(t *testing.T) {
	assert.Equal(t, "scriptalert(1)&#x2F;script", campos.SanitizarTexto("<script>alert(1)</script>"))
	assert.Equal(t, "Calle 10 # 5-20", campos.SanitizarTexto("  Calle 10 # 5-20  "))
	assert.Equal(t, "Pérez &amp; Asociados", campos.SanitizarTexto("Pérez & Asociados"))
	assert.Equal(t, "", campos.SanitizarTexto(""))
}
