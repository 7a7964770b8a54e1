package provisioning

import (
	"fmt"

	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

// State estado de una cuenta dentro del flujo de promoción.
type State string

const (
	StateEligible   State = "Eligible"
	StatePromoting  State = "Promoting"
	StateFarmer     State = "Farmer"
	StateRolledBack State = "RolledBack"
)

// Etapas del flujo en las que puede fallar una promoción.
const (
	StageGrantRole     = "grant_role"
	StageCreateProfile = "create_profile"
)

// PromotionError describe una promoción que no llegó a StateFarmer.
// Err es la causa principal y decide errors.Is; RollbackErr solo se llena
// si la revocación compensatoria del rol también falló.
type PromotionError struct {
	AccountID   string
	Stage       string
	State       State
	Err         error
	RollbackErr error
}

func (e *PromotionError) Error() string {
	msg := fmt.Sprintf("promoción de %s falló en %s: %v", e.AccountID, e.Stage, e.Err)
	if e.RollbackErr != nil {
		msg += fmt.Sprintf(" (revocación del rol falló: %v)", e.RollbackErr)
	}
	return msg
}

func (e *PromotionError) Unwrap() error { return e.Err }

// Result resultado de una promoción completada.
type Result struct {
	Profile *entity.FarmerProfile
	Email   string
	State   State
}
