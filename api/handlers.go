/*
handlers.go - HTTP API handlers for the rental engine

PURPOSE:
  Exposes the contract lifecycle and task bucket engines via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  the pure engines in contracts/ and tasks/.

ENDPOINTS:
  Contracts:
    POST   /api/contracts/progress     Classify and prorate a batch of contracts
    GET    /api/contracts/states       State label/color lookup table

  Tasks:
    POST   /api/tasks/buckets          Group tasks into time buckets
    GET    /api/tasks/buckets?mode=    Ordered bucket definitions

  Scenarios:
    GET    /api/scenarios              List built-in fixtures
    GET    /api/scenarios/{id}         Evaluate one fixture at its pinned day

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Factory: JSON to record conversion
  - Classifier: task calendar options
  - Formatter: money display
  - Now: the clock. Engines never read it; handlers resolve "today" once
    per request and pass it down.

  The service keeps no state. Every request carries its own records.

REQUEST FLOW:
  1. Parse HTTP request
  2. Resolve today (body value or clock)
  3. Decode each record via factory
  4. Classify
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, invalid today or mode
  - 404: Unknown scenario
  A record that fails to decode or classify degrades its own row
  (error field) and never fails the batch.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Built-in fixtures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/rental-engine/config"
	"github.com/warp/rental-engine/contracts"
	"github.com/warp/rental-engine/factory"
	"github.com/warp/rental-engine/generic"
	"github.com/warp/rental-engine/generic/store"
	"github.com/warp/rental-engine/tasks"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Factory    *factory.RecordFactory
	Classifier tasks.Classifier
	Formatter  *contracts.AmountFormatter
	Log        zerolog.Logger

	// Now supplies the current instant when a request omits "today".
	Now func() time.Time
}

// NewHandler creates a handler from the engine configuration.
func NewHandler(cfg config.EngineConfig, log zerolog.Logger) *Handler {
	return &Handler{
		Factory:    factory.NewRecordFactory(cfg.Location),
		Classifier: cfg.Classifier(),
		Formatter:  contracts.NewAmountFormatter(cfg.CurrencySymbol),
		Log:        log,
		Now:        time.Now,
	}
}

// resolveToday parses raw in the factory's location, or reads the clock
// when raw is empty.
func (h *Handler) resolveToday(raw string) (generic.TimePoint, error) {
	if raw == "" {
		return generic.At(h.Now().In(h.Factory.Location)).Normalize(), nil
	}
	tp, err := generic.ParseDate(raw, h.Factory.Location)
	if err != nil {
		return generic.TimePoint{}, &generic.InvalidInputError{Field: "today", Reason: "unparseable date " + raw}
	}
	return tp.Normalize(), nil
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ContractProgress classifies every contract in the body.
func (h *Handler) ContractProgress(w http.ResponseWriter, r *http.Request) {
	var req ContractProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	today, err := h.resolveToday(req.Today)
	if err != nil {
		writeClientError(w, err)
		return
	}

	visible := req.Visible == nil || *req.Visible
	tenants := partyDirectory(req.Inquilinos)
	resp := h.evaluateContracts(zerolog.Ctx(r.Context()), req.Contracts, tenants, today, visible)
	writeJSON(w, http.StatusOK, resp)
}

// ListStates returns the state lookup table.
func (h *Handler) ListStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateTable())
}

func (h *Handler) evaluateContracts(log *zerolog.Logger, cjs []factory.ContractJSON, tenants *store.Memory[contracts.Party], today generic.TimePoint, visible bool) ContractProgressResponse {
	rows := make([]ContractProgressDTO, 0, len(cjs))
	for i, cj := range cjs {
		row, degraded := h.evaluateContract(cj, tenants, today, visible)
		row.Index = i

		if row.Error != "" {
			recordRejected("contract")
			log.Warn().Int("index", i).Str("contract_id", row.ID).Str("error", row.Error).Msg("contract row rejected")
		} else {
			if degraded != nil && row.Malformed {
				log.Warn().Err(degraded).Str("contract_id", row.ID).Msg("malformed_range")
			}
			recordContractState(row.State, degraded != nil)
		}
		rows = append(rows, row)
	}
	return ContractProgressResponse{Today: today.String(), Contracts: rows}
}

// evaluateContract builds one row. The returned error is the record's
// degradation (missing or malformed range), not a failure.
func (h *Handler) evaluateContract(cj factory.ContractJSON, tenants *store.Memory[contracts.Party], today generic.TimePoint, visible bool) (ContractProgressDTO, error) {
	rec, err := h.Factory.ContractFromJSON(cj)
	if err != nil {
		return ContractProgressDTO{ID: firstID(cj.MongoID, cj.ID), Error: err.Error()}, nil
	}

	p, err := contracts.Classify(rec, today)
	if err != nil {
		return ContractProgressDTO{ID: rec.ID, Error: err.Error()}, nil
	}

	row := ContractProgressDTO{
		ID:             rec.ID,
		State:          p.State,
		StateLabel:     contracts.StateDisplayLabel(p.State),
		StateColor:     contracts.StateColorToken(p.State),
		HasRange:       p.HasRange,
		Finished:       p.Finished,
		Malformed:      p.Malformed,
		Percentage:     p.Percentage,
		ElapsedDays:    p.ElapsedDays,
		TotalDays:      p.TotalDays,
		RemainingDays:  p.RemainingDays,
		AccruedAmount:  amountString(p.AccruedAmount),
		TotalAmount:    amountString(p.TotalAmount),
		AccruedDisplay: h.Formatter.Format(p.AccruedAmount, visible),
		TotalDisplay:   h.Formatter.Format(p.TotalAmount, visible),
		Tenants:        contracts.TenantNames(rec, tenants.Lookup),
	}
	if p.HasRange {
		row.RemainingLabel = contracts.RemainingDaysLabel(*rec.Range.End, today)
		row.DurationLabel = contracts.DurationLabel(*rec.Range.Start, *rec.Range.End)
	}
	return row, contracts.Degradation(rec)
}

func partyDirectory(pjs []factory.PartyJSON) *store.Memory[contracts.Party] {
	dir := store.NewMemory[contracts.Party]()
	for _, pj := range pjs {
		p := factory.PartyFromJSON(pj)
		dir.Put(p.ID, p)
	}
	return dir
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// TaskBuckets groups the tasks in the body.
func (h *Handler) TaskBuckets(w http.ResponseWriter, r *http.Request) {
	var req TaskBucketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	today, err := h.resolveToday(req.Today)
	if err != nil {
		writeClientError(w, err)
		return
	}
	mode, err := tasks.ParseMode(req.Mode)
	if err != nil {
		writeClientError(w, err)
		return
	}

	resp, err := h.evaluateTasks(zerolog.Ctx(r.Context()), req.Tasks, today, mode)
	if err != nil {
		writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListBuckets returns the bucket definitions of a mode in priority order.
func (h *Handler) ListBuckets(w http.ResponseWriter, r *http.Request) {
	mode, err := tasks.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBucketDTOs(mode))
}

func (h *Handler) evaluateTasks(log *zerolog.Logger, tjs []factory.TaskJSON, today generic.TimePoint, mode tasks.Mode) (TaskBucketsResponse, error) {
	resp := TaskBucketsResponse{Today: today.String(), Mode: mode}

	records := make([]tasks.Record, 0, len(tjs))
	reject := func(i int, id string, err error) {
		recordRejected("task")
		log.Warn().Int("index", i).Str("task_id", id).Err(err).Msg("task row rejected")
		resp.Rejected = append(resp.Rejected, RejectedDTO{Index: i, ID: id, Error: err.Error()})
	}

	// Classify each row up front so one bad row never fails Group for the rest.
	for i, tj := range tjs {
		rec, err := h.Factory.TaskFromJSON(tj)
		if err != nil {
			reject(i, firstID(tj.MongoID, tj.ID), err)
			continue
		}
		if _, err := h.Classifier.Classify(rec, today, mode); err != nil {
			reject(i, rec.ID, err)
			continue
		}
		records = append(records, rec)
	}

	groups, err := h.Classifier.Group(records, today, mode)
	if err != nil {
		return TaskBucketsResponse{}, err
	}
	for _, g := range groups {
		recordTaskBucket(g.Bucket, mode, len(g.Items))
	}
	resp.Groups = toGroupDTOs(groups, mode)
	return resp, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeClientError maps engine errors onto 400 with the offending field as code.
func writeClientError(w http.ResponseWriter, err error) {
	if !generic.IsClientError(err) {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	resp := ErrorResponse{Error: err.Error(), Code: "invalid_input"}
	var inputErr *generic.InvalidInputError
	if errors.As(err, &inputErr) {
		resp.Details = map[string]string{"field": inputErr.Field, "reason": inputErr.Reason}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func firstID(ids ...string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}
