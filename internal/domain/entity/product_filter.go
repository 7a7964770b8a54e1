package entity

import "time"

// ProductFilter criterios opcionales para listar productos de un agricultor.
// Las fechas se interpretan por día: StartDate incluye el día completo desde 00:00
// y EndDate incluye el día completo (se evalúa como < EndDate + 1 día).
type ProductFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Normalized devuelve una copia con la categoría normalizada y las fechas truncadas al día.
func (f ProductFilter) Normalized() ProductFilter {
	out := ProductFilter{Category: NormalizeCategory(f.Category)}
	if f.StartDate != nil {
		d := startOfDay(*f.StartDate)
		out.StartDate = &d
	}
	if f.EndDate != nil {
		d := startOfDay(*f.EndDate)
		out.EndDate = &d
	}
	return out
}

// Lower devuelve la cota inferior inclusiva, si existe.
func (f ProductFilter) Lower() (time.Time, bool) {
	if f.StartDate == nil {
		return time.Time{}, false
	}
	return startOfDay(*f.StartDate), true
}

// UpperExclusive devuelve la cota superior exclusiva: el inicio del día siguiente a EndDate.
func (f ProductFilter) UpperExclusive() (time.Time, bool) {
	if f.EndDate == nil {
		return time.Time{}, false
	}
	return startOfDay(*f.EndDate).AddDate(0, 0, 1), true
}

// Matches aplica el filtro en memoria con la misma semántica que la consulta SQL.
func (f ProductFilter) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	if c := NormalizeCategory(f.Category); c != "" && p.Category != c {
		return false
	}
	if lo, ok := f.Lower(); ok && p.ProductionDate.Before(lo) {
		return false
	}
	if hi, ok := f.UpperExclusive(); ok && !p.ProductionDate.Before(hi) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
