// Package contracts derives lifecycle state, elapsed/remaining days and
// prorated amounts for rental contracts. Everything here is a pure function
// of the record and an explicit "today".
package contracts

import (
	"strings"

	"github.com/warp/rental-engine/generic"
)

// =============================================================================
// LIFECYCLE STATE
// =============================================================================

// State is the lifecycle state of a contract.
type State string

const (
	StateActivo        State = "ACTIVO"
	StatePlaneado      State = "PLANEADO"
	StateFinalizado    State = "FINALIZADO"
	StateReservado     State = "RESERVADO"
	StateMantenimiento State = "MANTENIMIENTO"
	StatePendiente     State = "PENDIENTE"
)

// States lists every state in display order.
var States = []State{
	StateActivo,
	StatePlaneado,
	StateReservado,
	StateFinalizado,
	StateMantenimiento,
	StatePendiente,
}

func (s State) IsValid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

// ParseState accepts the backend spelling, case-insensitively.
func ParseState(s string) (State, error) {
	st := State(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", &generic.InvalidInputError{Field: "estadoActual", Reason: "unknown state " + s}
	}
	return st, nil
}

// =============================================================================
// RECORD - What the engine consumes
// =============================================================================

// Party is a tenant or owner as shown on a contract card.
type Party struct {
	ID    string
	Name  string
	Email string
}

// Record is built fresh from the raw contract on every call and never mutated.
type Record struct {
	ID    string
	Range generic.Range

	// MonthlyAmount nil counts as zero.
	MonthlyAmount *generic.Amount

	// ExplicitState is the backend-computed state (estadoActual). When set it
	// wins over anything derived from dates.
	ExplicitState *State

	// Reserved marks a future contract as RESERVADO instead of PLANEADO.
	Reserved bool

	Tenants []generic.Ref[Party]
}

func (r Record) monthly() generic.Amount {
	if r.MonthlyAmount == nil {
		return generic.ZeroAmount()
	}
	return *r.MonthlyAmount
}

// =============================================================================
// PROGRESS - Derived, recomputed on every call
// =============================================================================

// Progress is the derived view of a contract at a given day.
type Progress struct {
	State State

	// Percentage is in [0, 100]. Zero when TotalDays is zero.
	Percentage float64

	ElapsedDays   int
	TotalDays     int
	RemainingDays int

	AccruedAmount generic.Amount
	TotalAmount   generic.Amount

	// HasRange is false when either bound is missing. Callers must branch on
	// it before showing progress bars or amounts.
	HasRange bool

	// Finished is true once today is past the end date.
	Finished bool

	// Malformed is true when end is before start. Counts are clamped to zero.
	Malformed bool
}
