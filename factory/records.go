/*
Package factory converts REST-shaped JSON records into engine records.

PURPOSE:
  The backend speaks Spanish field names and is loose about shapes: ids may
  be "_id" or "id", amounts may be numbers or strings, related tenants may
  be embedded objects or bare ids. This package is the one place where
  those shapes are interpreted. Everything downstream receives typed
  records and explicit generic.Ref variants.

JSON SCHEMA (contract):
  {
    "_id": "665f...",
    "fechaInicio": "2024-01-01",
    "fechaFin": "2024-12-31T00:00:00Z",
    "montoMensual": 1000,            // number, numeric string, null or absent
    "estadoActual": "ACTIVO",        // optional, authoritative
    "reservado": false,
    "inquilino": [{"_id": "t1", "nombre": "Ana"}, "t2"]
  }

JSON SCHEMA (task):
  {
    "_id": "t-9",
    "titulo": "Renovar seguro",
    "fechaInicio": "2024-01-03",
    "fechaVencimiento": null,
    "completada": false
  }

RULES:
  - Dates: "YYYY-MM-DD" or RFC3339, read in the factory's location.
    Empty or null means absent. Anything else is ErrInvalidInput.
  - montoMensual: absent, null or non-numeric counts as 0.
  - estadoActual: must be a known state when present.

USAGE:
  f := factory.NewRecordFactory(time.Local)
  rec, err := f.ParseContract(body)

SEE ALSO:
  - contracts/types.go: Record
  - tasks/types.go: Record
  - generic/ref.go: Ref variants
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warp/rental-engine/contracts"
	"github.com/warp/rental-engine/generic"
	"github.com/warp/rental-engine/tasks"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ContractJSON is the REST representation of a contract.
type ContractJSON struct {
	ID           string            `json:"id,omitempty"`
	MongoID      string            `json:"_id,omitempty"`
	FechaInicio  *string           `json:"fechaInicio,omitempty"`
	FechaFin     *string           `json:"fechaFin,omitempty"`
	MontoMensual json.RawMessage   `json:"montoMensual,omitempty"`
	EstadoActual string            `json:"estadoActual,omitempty"`
	Reservado    bool              `json:"reservado,omitempty"`
	Inquilino    []json.RawMessage `json:"inquilino,omitempty"`
}

// PartyJSON is an embedded tenant.
type PartyJSON struct {
	ID       string `json:"id,omitempty"`
	MongoID  string `json:"_id,omitempty"`
	Nombre   string `json:"nombre,omitempty"`
	Apellido string `json:"apellido,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TaskJSON is the REST representation of a task.
type TaskJSON struct {
	ID               string  `json:"id,omitempty"`
	MongoID          string  `json:"_id,omitempty"`
	Titulo           string  `json:"titulo,omitempty"`
	FechaInicio      string  `json:"fechaInicio"`
	FechaVencimiento *string `json:"fechaVencimiento,omitempty"`
	Completada       bool    `json:"completada,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// RecordFactory creates engine records from JSON.
type RecordFactory struct {
	Location *time.Location
}

// NewRecordFactory reads dates in loc (time.Local when nil).
func NewRecordFactory(loc *time.Location) *RecordFactory {
	if loc == nil {
		loc = time.Local
	}
	return &RecordFactory{Location: loc}
}

// ParseContract parses one contract object.
func (f *RecordFactory) ParseContract(data []byte) (contracts.Record, error) {
	var cj ContractJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return contracts.Record{}, fmt.Errorf("failed to parse contract JSON: %w", err)
	}
	return f.ContractFromJSON(cj)
}

// ParseContracts parses a JSON array of contracts. The first bad record aborts.
func (f *RecordFactory) ParseContracts(data []byte) ([]contracts.Record, error) {
	var cjs []ContractJSON
	if err := json.Unmarshal(data, &cjs); err != nil {
		return nil, fmt.Errorf("failed to parse contracts JSON: %w", err)
	}
	records := make([]contracts.Record, 0, len(cjs))
	for i, cj := range cjs {
		rec, err := f.ContractFromJSON(cj)
		if err != nil {
			return nil, fmt.Errorf("contract %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ContractFromJSON converts ContractJSON to contracts.Record.
func (f *RecordFactory) ContractFromJSON(cj ContractJSON) (contracts.Record, error) {
	rec := contracts.Record{
		ID:       firstNonEmpty(cj.MongoID, cj.ID),
		Reserved: cj.Reservado,
	}

	var err error
	if rec.Range.Start, err = f.optionalDate("fechaInicio", cj.FechaInicio); err != nil {
		return contracts.Record{}, err
	}
	if rec.Range.End, err = f.optionalDate("fechaFin", cj.FechaFin); err != nil {
		return contracts.Record{}, err
	}

	if amount, ok := parseLooseAmount(cj.MontoMensual); ok {
		rec.MonthlyAmount = &amount
	}

	if cj.EstadoActual != "" {
		state, err := contracts.ParseState(cj.EstadoActual)
		if err != nil {
			return contracts.Record{}, err
		}
		rec.ExplicitState = &state
	}

	for i, raw := range cj.Inquilino {
		ref, err := parsePartyRef(raw)
		if err != nil {
			return contracts.Record{}, fmt.Errorf("inquilino %d: %w", i, err)
		}
		rec.Tenants = append(rec.Tenants, ref)
	}
	return rec, nil
}

// ParseTask parses one task object.
func (f *RecordFactory) ParseTask(data []byte) (tasks.Record, error) {
	var tj TaskJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return tasks.Record{}, fmt.Errorf("failed to parse task JSON: %w", err)
	}
	return f.TaskFromJSON(tj)
}

// ParseTasks parses a JSON array of tasks. The first bad record aborts.
func (f *RecordFactory) ParseTasks(data []byte) ([]tasks.Record, error) {
	var tjs []TaskJSON
	if err := json.Unmarshal(data, &tjs); err != nil {
		return nil, fmt.Errorf("failed to parse tasks JSON: %w", err)
	}
	records := make([]tasks.Record, 0, len(tjs))
	for i, tj := range tjs {
		rec, err := f.TaskFromJSON(tj)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// TaskFromJSON converts TaskJSON to tasks.Record. fechaInicio is required.
func (f *RecordFactory) TaskFromJSON(tj TaskJSON) (tasks.Record, error) {
	start, err := f.optionalDate("fechaInicio", &tj.FechaInicio)
	if err != nil {
		return tasks.Record{}, err
	}
	if start == nil {
		return tasks.Record{}, &generic.InvalidInputError{Field: "fechaInicio", Reason: "required"}
	}
	dueDate, err := f.optionalDate("fechaVencimiento", tj.FechaVencimiento)
	if err != nil {
		return tasks.Record{}, err
	}
	return tasks.Record{
		ID:        firstNonEmpty(tj.MongoID, tj.ID),
		Title:     tj.Titulo,
		StartDate: *start,
		DueDate:   dueDate,
		Completed: tj.Completada,
	}, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func (f *RecordFactory) optionalDate(field string, s *string) (*generic.TimePoint, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	tp, err := generic.ParseDate(strings.TrimSpace(*s), f.Location)
	if err != nil {
		return nil, &generic.InvalidInputError{Field: field, Reason: fmt.Sprintf("unparseable date %q", *s)}
	}
	return &tp, nil
}

// parseLooseAmount accepts a JSON number or a numeric string. Anything else
// (absent, null, text, objects) reports ok=false and counts as zero.
func parseLooseAmount(raw json.RawMessage) (generic.Amount, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return generic.Amount{}, false
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return generic.Amount{}, false
		}
	}
	amount, err := generic.ParseAmount(strings.TrimSpace(text))
	if err != nil {
		return generic.Amount{}, false
	}
	return amount, true
}

// parsePartyRef decodes an embedded tenant object as Populated and a bare
// id string as Unresolved.
func parsePartyRef(raw json.RawMessage) (generic.Ref[contracts.Party], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return generic.Ref[contracts.Party]{}, err
		}
		return generic.Unresolved[contracts.Party](id), nil
	}

	var pj PartyJSON
	if err := json.Unmarshal(raw, &pj); err != nil {
		return generic.Ref[contracts.Party]{}, &generic.InvalidInputError{Field: "inquilino", Reason: "expected object or id"}
	}
	party := PartyFromJSON(pj)
	return generic.Populated(party.ID, party), nil
}

// PartyFromJSON converts an embedded or standalone tenant object.
func PartyFromJSON(pj PartyJSON) contracts.Party {
	return contracts.Party{
		ID:    firstNonEmpty(pj.MongoID, pj.ID),
		Name:  strings.TrimSpace(pj.Nombre + " " + pj.Apellido),
		Email: pj.Email,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
