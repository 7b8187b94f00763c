/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Contract progress rows, labels, amount visibility and row degradation
- Task bucket grouping and rejected rows
- Lookup tables, health, metrics exposition
- Request logging
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rental-engine/config"
	"github.com/warp/rental-engine/contracts"
	"github.com/warp/rental-engine/tasks"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var engineConfig = config.EngineConfig{
	WeekStart:      time.Monday,
	ArchivePolicy:  tasks.ArchiveCompat,
	CurrencySymbol: "$",
	Location:       time.UTC,
}

func setupTestRouter(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()
	h := NewHandler(engineConfig, zerolog.Nop())
	h.Now = func() time.Time { return time.Date(2024, time.January, 16, 15, 30, 0, 0, time.UTC) }
	return h, NewRouter(h, config.HTTPConfig{CORSOrigins: []string{"http://localhost:5173"}})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// CONTRACTS
// =============================================================================

func TestContractProgress_MidTerm(t *testing.T) {
	// GIVEN: A January lease at 1000/month
	// WHEN: Posted with today = Jan 16
	// THEN: Half way, 500 accrued, labels filled in
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts/progress", `{
		"today": "2024-01-16",
		"contracts": [{"_id": "c-1", "fechaInicio": "2024-01-01", "fechaFin": "2024-01-31", "montoMensual": 1000,
		               "inquilino": [{"_id": "t-1", "nombre": "Ana", "apellido": "Gómez"}]}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[ContractProgressResponse](t, rec)
	assert.Equal(t, "2024-01-16", resp.Today)
	require.Len(t, resp.Contracts, 1)

	row := resp.Contracts[0]
	assert.Empty(t, row.Error)
	assert.Equal(t, "c-1", row.ID)
	assert.Equal(t, contracts.StateActivo, row.State)
	assert.Equal(t, "Activo", row.StateLabel)
	assert.Equal(t, "success", row.StateColor)
	assert.True(t, row.HasRange)
	assert.InDelta(t, 50.0, row.Percentage, 1e-9)
	assert.Equal(t, 30, row.TotalDays)
	assert.Equal(t, 15, row.ElapsedDays)
	assert.Equal(t, "500", row.AccruedAmount)
	assert.Equal(t, "1000", row.TotalAmount)
	require.NotNil(t, row.RemainingLabel)
	assert.Equal(t, "15 días", *row.RemainingLabel)
	assert.Equal(t, "1 mes", row.DurationLabel)
	assert.Contains(t, row.TotalDisplay, "$")
	assert.Equal(t, []string{"Ana Gómez"}, row.Tenants)
}

func TestContractProgress_ResolvesTenantIDs(t *testing.T) {
	// GIVEN: A contract that references tenants by id, one of them sent alongside
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts/progress", `{
		"today": "2024-01-16",
		"contracts": [{"_id": "c-1", "fechaInicio": "2024-01-01", "fechaFin": "2024-01-31", "inquilino": ["t-1", "t-404"]}],
		"inquilinos": [{"_id": "t-1", "nombre": "Luis", "apellido": "Pérez"}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	row := decode[ContractProgressResponse](t, rec).Contracts[0]
	assert.Equal(t, []string{"Luis Pérez", "t-404"}, row.Tenants)
}

func TestContractProgress_DegradesBadRowOnly(t *testing.T) {
	// GIVEN: One contract with an unparseable end date and one valid contract
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts/progress", `{
		"today": "2024-01-16",
		"contracts": [
			{"_id": "bad", "fechaInicio": "2024-01-01", "fechaFin": "el mes que viene"},
			{"_id": "good", "fechaInicio": "2024-01-01", "fechaFin": "2024-01-31"}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ContractProgressResponse](t, rec)
	require.Len(t, resp.Contracts, 2)
	assert.Equal(t, 0, resp.Contracts[0].Index)
	assert.Equal(t, "bad", resp.Contracts[0].ID)
	assert.Contains(t, resp.Contracts[0].Error, "fechaFin")
	assert.Empty(t, resp.Contracts[1].Error)
	assert.Equal(t, contracts.StateActivo, resp.Contracts[1].State)
}

func TestContractProgress_MalformedRangeIsFlagged(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts/progress", `{
		"today": "2024-01-16",
		"contracts": [{"_id": "rev", "fechaInicio": "2024-02-01", "fechaFin": "2024-01-01", "montoMensual": 1000}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	row := decode[ContractProgressResponse](t, rec).Contracts[0]
	assert.Empty(t, row.Error)
	assert.True(t, row.Malformed)
	assert.Zero(t, row.TotalDays)
	assert.Zero(t, row.Percentage)
	assert.Equal(t, "0", row.TotalAmount)
}

func TestContractProgress_TodayDefaultsToClock(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts/progress", `{"contracts": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ContractProgressResponse](t, rec)
	assert.Equal(t, "2024-01-16", resp.Today)
	assert.Empty(t, resp.Contracts)
}

func TestContractProgress_HidesAmounts(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts/progress", `{
		"today": "2024-01-16", "visible": false,
		"contracts": [{"fechaInicio": "2024-01-01", "fechaFin": "2024-01-31", "montoMensual": "1000"}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	row := decode[ContractProgressResponse](t, rec).Contracts[0]
	assert.Equal(t, contracts.HiddenAmount, row.AccruedDisplay)
	assert.Equal(t, contracts.HiddenAmount, row.TotalDisplay)
	assert.Equal(t, "500", row.AccruedAmount, "raw amounts are still returned")
}

func TestContractProgress_BadRequests(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts/progress", `{"contracts": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/contracts/progress", `{"today": "16/01/2024", "contracts": []}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "invalid_input", resp.Code)
	assert.Equal(t, map[string]any{"field": "today", "reason": "unparseable date 16/01/2024"}, resp.Details)
}

func TestListStates(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/contracts/states", "")
	require.Equal(t, http.StatusOK, rec.Code)

	states := decode[[]StateDTO](t, rec)
	require.Len(t, states, len(contracts.States))
	for _, s := range states {
		assert.Equal(t, contracts.StateDisplayLabel(s.State), s.Label)
		assert.Equal(t, contracts.StateColorToken(s.State), s.Color)
	}
}

// =============================================================================
// TASKS
// =============================================================================

func TestTaskBuckets_GroupsInPriorityOrder(t *testing.T) {
	// GIVEN: Wednesday Jan 10, tasks for today, this week and next year,
	// plus one row without a usable start date
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/tasks/buckets", `{
		"today": "2024-01-10",
		"mode": "active",
		"tasks": [
			{"_id": "far", "fechaInicio": "2024-01-01", "fechaVencimiento": "2025-02-01"},
			{"_id": "now", "fechaInicio": "2024-01-10"},
			{"_id": "broken", "fechaInicio": "pronto"},
			{"_id": "week", "fechaInicio": "2024-01-05", "fechaVencimiento": "2024-01-12"}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[TaskBucketsResponse](t, rec)
	assert.Equal(t, tasks.ModeActive, resp.Mode)
	require.Len(t, resp.Groups, 3)

	assert.Equal(t, tasks.BucketHoy, resp.Groups[0].Bucket)
	assert.Equal(t, 0, resp.Groups[0].Priority)
	assert.Equal(t, "now", resp.Groups[0].Items[0].ID)

	assert.Equal(t, tasks.BucketEstaSemana, resp.Groups[1].Bucket)
	require.NotNil(t, resp.Groups[1].Items[0].DueDate)
	assert.Equal(t, "2024-01-12", *resp.Groups[1].Items[0].DueDate)

	assert.Equal(t, tasks.BucketMasAdelante, resp.Groups[2].Bucket)
	assert.Equal(t, "Más Adelante", resp.Groups[2].Label)
	assert.Equal(t, 5, resp.Groups[2].Priority)

	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, 2, resp.Rejected[0].Index)
	assert.Equal(t, "broken", resp.Rejected[0].ID)
}

func TestTaskBuckets_ZeroDateRowIsRejectedAlone(t *testing.T) {
	// GIVEN: A row whose start date parses to the zero time next to a valid row
	// WHEN: Grouped
	// THEN: The valid row is grouped and only the zero-date row is rejected
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/tasks/buckets", `{
		"today": "2024-01-10",
		"tasks": [
			{"_id": "zero", "fechaInicio": "0001-01-01T00:00:00Z"},
			{"_id": "ok", "fechaInicio": "2024-01-10"}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[TaskBucketsResponse](t, rec)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, tasks.BucketHoy, resp.Groups[0].Bucket)
	assert.Equal(t, "ok", resp.Groups[0].Items[0].ID)

	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, 0, resp.Rejected[0].Index)
	assert.Equal(t, "zero", resp.Rejected[0].ID)
	assert.Contains(t, resp.Rejected[0].Error, "fechaInicio")
}

func TestTaskBuckets_ModeDefaultsToActive(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/tasks/buckets", `{"tasks": [{"fechaInicio": "2024-01-16"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[TaskBucketsResponse](t, rec)
	assert.Equal(t, tasks.ModeActive, resp.Mode)
	assert.Equal(t, "2024-01-16", resp.Today)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, tasks.BucketHoy, resp.Groups[0].Bucket)
}

func TestTaskBuckets_UnknownMode(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/tasks/buckets", `{"mode": "upcoming", "tasks": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/tasks/buckets?mode=upcoming", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBuckets(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/tasks/buckets?mode=archive", "")
	require.Equal(t, http.StatusOK, rec.Code)

	buckets := decode[[]BucketDTO](t, rec)
	require.Len(t, buckets, 6)
	assert.Equal(t, tasks.BucketUltimoAño, buckets[4].Bucket)
	assert.Equal(t, "Último Año", buckets[4].Label)
	assert.Equal(t, 4, buckets[4].Priority)
}

// =============================================================================
// AMBIENT ENDPOINTS & MIDDLEWARE
// =============================================================================

func TestHealthAndMetrics(t *testing.T) {
	_, router := setupTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, router, http.MethodPost, "/api/contracts/progress",
		`{"today": "2024-01-16", "contracts": [{"fechaInicio": "2024-01-01", "fechaFin": "2024-01-31"}]}`)

	rec = do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `rental_contracts_classified_total{degraded="false",state="ACTIVO"}`)
	assert.Contains(t, rec.Body.String(), `rental_http_request_duration_seconds_count{method="POST",route="/api/contracts/progress",status="200"}`)
}

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(engineConfig, zerolog.New(&buf))
	router := NewRouter(h, config.HTTPConfig{})

	rec := do(t, router, http.MethodGet, "/api/scenarios/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "/api/scenarios/nope", entry["path"])
	assert.Equal(t, rec.Header().Get("X-Request-Id"), entry["request_id"])
	assert.Len(t, entry["request_id"], 36, "uuid")
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	_, router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "trace-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-Id"))
}
