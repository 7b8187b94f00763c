package contracts

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/warp/rental-engine/generic"
)

// monthLabelThreshold is the remaining-days count from which labels switch to months.
const monthLabelThreshold = 90

var stateLabels = map[State]string{
	StateActivo:        "Activo",
	StatePlaneado:      "Planeado",
	StateReservado:     "Reservado",
	StateFinalizado:    "Finalizado",
	StateMantenimiento: "Mantenimiento",
	StatePendiente:     "Pendiente",
}

var stateColors = map[State]string{
	StateActivo:        "success",
	StatePlaneado:      "info",
	StateReservado:     "warning",
	StateFinalizado:    "default",
	StateMantenimiento: "secondary",
	StatePendiente:     "warning",
}

// StateDisplayLabel returns the display string for a state. Unknown states
// are echoed back unchanged.
func StateDisplayLabel(s State) string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return string(s)
}

// StateColorToken returns the theme color token for a state ("default" when unknown).
func StateColorToken(s State) string {
	if c, ok := stateColors[s]; ok {
		return c
	}
	return "default"
}

// RemainingDaysLabel returns nil once the contract is finished (end < today).
// Under 90 days the label is in days, otherwise in whole 30-day months.
func RemainingDaysLabel(end, today generic.TimePoint) *string {
	days := generic.DaysBetween(today, end)
	if days < 0 {
		return nil
	}
	var label string
	if days < monthLabelThreshold {
		label = countLabel(days, "día", "días")
	} else {
		label = countLabel(days/generic.FixedMonthDays, "mes", "meses")
	}
	return &label
}

// DurationLabel returns the total duration as whole months when at least
// one month long, else in days. Malformed ranges read as "0 días".
func DurationLabel(start, end generic.TimePoint) string {
	days := max(generic.DaysBetween(start, end), 0)
	if months := days / generic.FixedMonthDays; months >= 1 {
		return countLabel(months, "mes", "meses")
	}
	return countLabel(days, "día", "días")
}

func countLabel(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// =============================================================================
// AMOUNT FORMATTING
// =============================================================================

// HiddenAmount replaces amounts when the viewer chose to hide values.
const HiddenAmount = "****"

// AmountFormatter renders money with Spanish number conventions.
type AmountFormatter struct {
	Symbol  string
	printer *message.Printer
}

func NewAmountFormatter(symbol string) *AmountFormatter {
	return &AmountFormatter{Symbol: symbol, printer: message.NewPrinter(language.Spanish)}
}

// Format renders the amount with two decimals, or HiddenAmount when !visible.
func (f *AmountFormatter) Format(a generic.Amount, visible bool) string {
	if !visible {
		return HiddenAmount
	}
	s := f.printer.Sprintf("%.2f", a.Round(2).Float64())
	if f.Symbol == "" {
		return s
	}
	return strings.TrimSpace(f.Symbol + " " + s)
}

// TenantNames resolves tenant references for display. Unresolved refs that
// lookup cannot find fall back to their id.
func TenantNames(rec Record, lookup func(id string) (Party, bool)) []string {
	names := make([]string, 0, len(rec.Tenants))
	for _, ref := range rec.Tenants {
		if p, ok := ref.Resolve(lookup); ok && p.Name != "" {
			names = append(names, p.Name)
			continue
		}
		if ref.ID() != "" {
			names = append(names, ref.ID())
		}
	}
	return names
}
