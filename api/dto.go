/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Request bodies reuse
  the factory JSON schema so the service accepts records exactly as the
  backend returns them. Responses carry both raw numbers and ready-made
  labels so presentation components never recompute anything.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Contracts:
    ContractProgressRequest, ContractProgressDTO, ContractProgressResponse, StateDTO

  Tasks:
    TaskBucketsRequest, TaskDTO, BucketGroupDTO, TaskBucketsResponse, BucketDTO

  Scenarios:
    ScenarioDTO, ScenarioResultDTO

AMOUNTS:
  Amounts are decimal strings ("500", "333.33") plus a formatted display
  string. The display string is HiddenAmount when the request sets
  "visible": false.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/records.go: ContractJSON, TaskJSON
*/
package api

import (
	"github.com/warp/rental-engine/contracts"
	"github.com/warp/rental-engine/factory"
	"github.com/warp/rental-engine/generic"
	"github.com/warp/rental-engine/tasks"
)

// =============================================================================
// CONTRACTS
// =============================================================================

// ContractProgressRequest is the body of POST /api/contracts/progress.
// Inquilinos resolves tenants that contracts reference by id only.
type ContractProgressRequest struct {
	Today      string                 `json:"today,omitempty"`
	Visible    *bool                  `json:"visible,omitempty"` // default true
	Contracts  []factory.ContractJSON `json:"contracts"`
	Inquilinos []factory.PartyJSON    `json:"inquilinos,omitempty"`
}

// ContractProgressDTO is one contract row. When Error is set only ID and
// Index are meaningful.
type ContractProgressDTO struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`

	State      contracts.State `json:"state,omitempty"`
	StateLabel string          `json:"state_label,omitempty"`
	StateColor string          `json:"state_color,omitempty"`

	HasRange      bool    `json:"has_range"`
	Finished      bool    `json:"finished"`
	Malformed     bool    `json:"malformed"`
	Percentage    float64 `json:"percentage"`
	ElapsedDays   int     `json:"elapsed_days"`
	TotalDays     int     `json:"total_days"`
	RemainingDays int     `json:"remaining_days"`

	RemainingLabel *string `json:"remaining_label"`
	DurationLabel  string  `json:"duration_label,omitempty"`

	AccruedAmount  string `json:"accrued_amount"`
	TotalAmount    string `json:"total_amount"`
	AccruedDisplay string `json:"accrued_display"`
	TotalDisplay   string `json:"total_display"`

	Tenants []string `json:"tenants,omitempty"`
}

// ContractProgressResponse wraps the rows with the day they were computed for.
type ContractProgressResponse struct {
	Today     string                `json:"today"`
	Contracts []ContractProgressDTO `json:"contracts"`
}

// StateDTO is one row of the state lookup table.
type StateDTO struct {
	State contracts.State `json:"state"`
	Label string          `json:"label"`
	Color string          `json:"color"`
}

// =============================================================================
// TASKS
// =============================================================================

// TaskBucketsRequest is the body of POST /api/tasks/buckets.
type TaskBucketsRequest struct {
	Today string             `json:"today,omitempty"`
	Mode  string             `json:"mode,omitempty"` // "active" (default) or "archive"
	Tasks []factory.TaskJSON `json:"tasks"`
}

// TaskDTO is a task inside a bucket group.
type TaskDTO struct {
	ID        string  `json:"id,omitempty"`
	Title     string  `json:"title,omitempty"`
	StartDate string  `json:"start_date"`
	DueDate   *string `json:"due_date"`
	Completed bool    `json:"completed"`
}

// BucketGroupDTO is one non-empty bucket.
type BucketGroupDTO struct {
	Bucket   tasks.Bucket `json:"bucket"`
	Label    string       `json:"label"`
	Priority int          `json:"priority"`
	Items    []TaskDTO    `json:"items"`
}

// RejectedDTO reports a row that could not be classified.
type RejectedDTO struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// TaskBucketsResponse lists non-empty groups in priority order.
type TaskBucketsResponse struct {
	Today    string           `json:"today"`
	Mode     tasks.Mode       `json:"mode"`
	Groups   []BucketGroupDTO `json:"groups"`
	Rejected []RejectedDTO    `json:"rejected,omitempty"`
}

// BucketDTO is one bucket definition.
type BucketDTO struct {
	Bucket   tasks.Bucket `json:"bucket"`
	Label    string       `json:"label"`
	Priority int          `json:"priority"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO represents a built-in fixture.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"` // "contracts" or "tasks"
	Today       string `json:"today"`
}

// ScenarioResultDTO is a fixture evaluated against its pinned day.
type ScenarioResultDTO struct {
	Scenario  ScenarioDTO               `json:"scenario"`
	Contracts *ContractProgressResponse `json:"contracts,omitempty"`
	Tasks     *TaskBucketsResponse      `json:"tasks,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTaskDTO(r tasks.Record) TaskDTO {
	dto := TaskDTO{
		ID:        r.ID,
		Title:     r.Title,
		StartDate: r.StartDate.String(),
		Completed: r.Completed,
	}
	if r.DueDate != nil {
		s := r.DueDate.String()
		dto.DueDate = &s
	}
	return dto
}

func toGroupDTOs(groups []tasks.Group, mode tasks.Mode) []BucketGroupDTO {
	dtos := make([]BucketGroupDTO, 0, len(groups))
	for _, g := range groups {
		items := make([]TaskDTO, len(g.Items))
		for i, it := range g.Items {
			items[i] = toTaskDTO(it)
		}
		dtos = append(dtos, BucketGroupDTO{
			Bucket:   g.Bucket,
			Label:    g.Label,
			Priority: tasks.Priority(g.Bucket, mode),
			Items:    items,
		})
	}
	return dtos
}

func toBucketDTOs(mode tasks.Mode) []BucketDTO {
	buckets := tasks.Buckets(mode)
	dtos := make([]BucketDTO, len(buckets))
	for i, b := range buckets {
		dtos[i] = BucketDTO{Bucket: b, Label: tasks.BucketLabel(b), Priority: i}
	}
	return dtos
}

func stateTable() []StateDTO {
	dtos := make([]StateDTO, len(contracts.States))
	for i, s := range contracts.States {
		dtos[i] = StateDTO{State: s, Label: contracts.StateDisplayLabel(s), Color: contracts.StateColorToken(s)}
	}
	return dtos
}

func amountString(a generic.Amount) string {
	return a.Round(2).String()
}
