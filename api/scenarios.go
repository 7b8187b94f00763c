/*
scenarios.go - Built-in fixtures for demos and regression checks

PURPOSE:
  Provides pre-built record sets with a pinned "today" so the engines can
  be exercised end to end without a backend. Each fixture is evaluated
  through the same code path as the POST endpoints.

AVAILABLE SCENARIOS:

	mid-term-proration:  Jan lease at 1000/month, half way through
	open-ended-contract: Future start, no end date, no backend state
	finished-contract:   June lease seen in July
	overdue-open-task:   Undated open task started yesterday
	task-in-95-days:     Due past the quarter but within the year
	remaining-labels:    Day vs month remaining labels (5 and 91 days)

USAGE VIA API:

	GET /api/scenarios
	GET /api/scenarios/mid-term-proration

ADDING NEW SCENARIOS:
 1. Add a fixture to the 'scenarios' slice with a pinned today
 2. Fill Contracts or Tasks using the REST JSON schema

SEE ALSO:
  - handlers.go: evaluateContracts, evaluateTasks
  - factory/records.go: JSON schema
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/rental-engine/factory"
	"github.com/warp/rental-engine/tasks"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenarioFixture struct {
	ScenarioDTO
	Mode      tasks.Mode
	Contracts []factory.ContractJSON
	Tenants   []factory.PartyJSON
	Tasks     []factory.TaskJSON
}

var scenarios = []scenarioFixture{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "mid-term-proration",
			Name:        "Mid-Term Proration",
			Description: "30-day lease at 1000/month on day 15: 50%, 500 accrued",
			Category:    "contracts",
			Today:       "2024-01-16",
		},
		Contracts: []factory.ContractJSON{{
			ID:           "lease-jan",
			FechaInicio:  strPtr("2024-01-01"),
			FechaFin:     strPtr("2024-01-31"),
			MontoMensual: []byte("1000"),
			Inquilino:    []json.RawMessage{json.RawMessage(`"tenant-ana"`)},
		}},
		Tenants: []factory.PartyJSON{{ID: "tenant-ana", Nombre: "Ana", Apellido: "Gómez"}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "open-ended-contract",
			Name:        "Open-Ended Contract",
			Description: "Start date only and no backend state: PENDIENTE without progress",
			Category:    "contracts",
			Today:       "2024-01-01",
		},
		Contracts: []factory.ContractJSON{{
			ID:          "lease-open",
			FechaInicio: strPtr("2024-03-01"),
		}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "finished-contract",
			Name:        "Finished Contract",
			Description: "June lease seen in July: FINALIZADO with no remaining label",
			Category:    "contracts",
			Today:       "2024-07-01",
		},
		Contracts: []factory.ContractJSON{{
			ID:           "lease-june",
			FechaInicio:  strPtr("2024-06-01"),
			FechaFin:     strPtr("2024-06-10"),
			MontoMensual: []byte(`"900"`),
		}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "overdue-open-task",
			Name:        "Overdue Open Task",
			Description: "Open task without due date that started yesterday lands in Hoy",
			Category:    "tasks",
			Today:       "2024-01-10",
		},
		Mode: tasks.ModeActive,
		Tasks: []factory.TaskJSON{{
			ID:          "task-yesterday",
			Titulo:      "Llamar al inquilino",
			FechaInicio: "2024-01-09",
		}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "task-in-95-days",
			Name:        "Task Due In 95 Days",
			Description: "Past the three-month window but within the calendar year: EsteAño",
			Category:    "tasks",
			Today:       "2024-01-10",
		},
		Mode: tasks.ModeActive,
		Tasks: []factory.TaskJSON{{
			ID:               "task-95",
			Titulo:           "Renovar seguro",
			FechaInicio:      "2024-01-10",
			FechaVencimiento: strPtr("2024-04-14"),
		}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "remaining-labels",
			Name:        "Remaining Labels",
			Description: "5 days left reads \"5 días\", 91 days left reads \"3 meses\"",
			Category:    "contracts",
			Today:       "2024-01-10",
		},
		Contracts: []factory.ContractJSON{
			{ID: "ends-in-5", FechaInicio: strPtr("2024-01-01"), FechaFin: strPtr("2024-01-15")},
			{ID: "ends-in-91", FechaInicio: strPtr("2024-01-01"), FechaFin: strPtr("2024-04-10")},
		},
	},
}

func findScenario(id string) (scenarioFixture, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenarioFixture{}, false
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetScenario evaluates one fixture at its pinned day.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fixture, ok := findScenario(id)
	if !ok {
		writeError(w, http.StatusNotFound, "scenario not found", nil)
		return
	}

	result, err := h.runScenario(zerolog.Ctx(r.Context()), fixture)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) runScenario(log *zerolog.Logger, s scenarioFixture) (ScenarioResultDTO, error) {
	today, err := h.resolveToday(s.Today)
	if err != nil {
		return ScenarioResultDTO{}, err
	}

	result := ScenarioResultDTO{Scenario: s.ScenarioDTO}
	if len(s.Contracts) > 0 {
		resp := h.evaluateContracts(log, s.Contracts, partyDirectory(s.Tenants), today, true)
		result.Contracts = &resp
	}
	if len(s.Tasks) > 0 {
		resp, err := h.evaluateTasks(log, s.Tasks, today, s.Mode)
		if err != nil {
			return ScenarioResultDTO{}, err
		}
		result.Tasks = &resp
	}
	return result, nil
}

func strPtr(s string) *string {
	return &s
}
