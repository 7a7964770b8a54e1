package provisioning

import (
	"sort"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// ComputeEligible devuelve las cuentas que no son Employee, no son Farmer y no tienen perfil,
// ordenadas por email. Es pura: se recalcula en cada llamada.
func ComputeEligible(all, employees, farmers []*entity.Account, linkedAccountIDs []string) []*entity.Account {
	excluded := make(map[string]struct{}, len(employees)+len(farmers)+len(linkedAccountIDs))
	for _, a := range employees {
		excluded[a.ID] = struct{}{}
	}
	for _, a := range farmers {
		excluded[a.ID] = struct{}{}
	}
	for _, id := range linkedAccountIDs {
		excluded[id] = struct{}{}
	}

	out := make([]*entity.Account, 0, len(all))
	for _, a := range all {
		if a == nil {
			continue
		}
		if _, skip := excluded[a.ID]; skip {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
