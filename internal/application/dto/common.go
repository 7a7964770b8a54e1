package dto

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formato de fecha aceptado en formularios y query params.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
// Fields solo se llena en errores de validación (campo JSON -> regla incumplida).
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ParseDate acepta "2006-01-02" o RFC3339 y devuelve el día calendario tal como
// fue escrito, a las 00:00 UTC. La hora y el offset se descartan.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: se espera %s", s, DateLayout)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
