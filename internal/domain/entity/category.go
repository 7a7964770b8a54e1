package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultCategories son las categorías sugeridas en los formularios de producto.
var DefaultCategories = []string{"Fruit", "Vegetable", "Dairy", "Poultry", "Grain", "Other"}

var categoryFold = cases.Fold()

// NormalizeCategory recorta y colapsa espacios. Si el texto coincide sin distinguir
// mayúsculas con una categoría sugerida devuelve la forma canónica ("poultry" -> "Poultry");
// cualquier otra categoría conserva la escritura del usuario y nunca se alarga.
func NormalizeCategory(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	folded := categoryFold.String(s)
	for _, c := range DefaultCategories {
		if categoryFold.String(c) == folded {
			return c
		}
	}
	return s
}
