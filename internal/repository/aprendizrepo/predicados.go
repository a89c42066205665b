package aprendizrepo

import (
	"fmt"

	"etapaproductiva/internal/domain"
)

// construirPredicados traduce los criterios dispersos de búsqueda a una
// lista de condiciones SQL tipadas con sus valores posicionales. Cada
// criterio es independiente; el llamador las une con AND. Sin criterios la
// lista queda vacía y la búsqueda retorna la colección completa.
func construirPredicados(criterios domain.CriteriosBusqueda) ([]string, []interface{}) {
	var condiciones []string
	var valores []interface{}

	if criterios.Nombre != "" {
		patron := "%" + criterios.Nombre + "%"
		condiciones = append(condiciones, fmt.Sprintf(
			"(nombres ILIKE $%d OR primer_apellido ILIKE $%d OR segundo_apellido ILIKE $%d)",
			len(valores)+1, len(valores)+2, len(valores)+3))
		valores = append(valores, patron, patron, patron)
	}

	if criterios.Documento != "" {
		condiciones = append(condiciones, fmt.Sprintf("numero_documento = $%d", len(valores)+1))
		valores = append(valores, criterios.Documento)
	}

	if criterios.ProgramaFormacion != "" {
		condiciones = append(condiciones, fmt.Sprintf("programa_formacion = $%d", len(valores)+1))
		valores = append(valores, criterios.ProgramaFormacion)
	}

	if criterios.AlternativaSeleccionada != "" {
		condiciones = append(condiciones, fmt.Sprintf("alternativa_seleccionada = $%d", len(valores)+1))
		valores = append(valores, criterios.AlternativaSeleccionada)
	}

	return condiciones, valores
}
