package apihttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility-billing/internal/audit"
	"utility-billing/internal/catalog"
	customers "utility-billing/internal/customers/domain"
	ledger "utility-billing/internal/ledger/application"
	"utility-billing/internal/reporting"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type testServer struct {
	router *gin.Engine
	audit  *audit.MemoryLog
	clock  *fakeClock
	dir    *ledger.Directory
	path   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := &fakeClock{now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	dir, err := ledger.NewDirectory(catalog.Default(), ledger.WithClock(clock))
	require.NoError(t, err)
	for _, p := range []customers.Params{
		{ID: 1001, Name: "John Smith", Province: "Ontario", Email: "jsmith@email.com", Kind: catalog.Solar, Allocated: decimal.NewFromInt(500)},
		{ID: 1002, Name: "Jane Smith", Province: "Quebec", Email: "jsmith2@email.com", Kind: catalog.CrudeOil, Allocated: decimal.NewFromInt(300)},
	} {
		c, err := customers.NewCustomer(p, customers.WithClock(clock))
		require.NoError(t, err)
		require.NoError(t, dir.AddCustomer(c))
	}
	path := filepath.Join(t.TempDir(), "monthly_report.txt")
	trail := audit.NewMemoryLog(50)
	h, err := NewHandler(dir, reporting.NewWriter(nil), ReportConfig{Path: path, Formats: []reporting.Format{reporting.FormatText}}, nil, WithAuditTrail(trail))
	require.NoError(t, err)
	return &testServer{router: NewRouter(h), audit: trail, clock: clock, dir: dir, path: path}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestListCustomers(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/customers?q=Smith&province=Ontario", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data  []customers.Snapshot `json:"data"`
		Count int                  `json:"count"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Data, 1)
	assert.Equal(t, 1001, body.Data[0].ID)
	assert.Equal(t, catalog.Solar, body.Data[0].Kind)
}

func TestGetCustomerErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/customers/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/customers/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errBody ErrorResponse
	decode(t, rec, &errBody)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", errBody.Code)
	assert.Equal(t, "/api/v1/customers/42", errBody.Path)
}

func TestUsageBillingPaymentFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/customers/1001/usage", `{"amount":"600"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/1001/usage", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/1001/usage", `{"amount":300}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/billing/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var run struct {
		Data ledger.BillingRun `json:"data"`
	}
	decode(t, rec, &run)
	assert.Equal(t, 1, run.Data.Billed)
	assert.Equal(t, "54.00", run.Data.Amount.StringFixed(2))

	s.clock.now = s.clock.now.Add(31 * 24 * time.Hour)
	rec = s.do(t, http.MethodGet, "/api/v1/overdue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = s.do(t, http.MethodPost, "/api/v1/reminders/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":1`)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/1001/payments", `{"bill_index":0,"amount":"50"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/customers/1001/payments", `{"bill_index":3,"amount":"54"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/customers/1001/payments", `{"bill_index":0,"amount":"54"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var paid struct {
		Data customers.Snapshot `json:"data"`
	}
	decode(t, rec, &paid)
	assert.True(t, paid.Data.Bills[0].Paid)
	assert.False(t, paid.Data.ReminderSent)
	assert.False(t, paid.Data.HasOverdue)
}

func TestAddMaintenance(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/customers/1002/maintenance", `{"description":"Meter swap","cost":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/1002/maintenance", `{"description":"Meter swap","cost":"80"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Meter swap")
}

func TestStatsEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		Data ledger.SystemStats `json:"data"`
	}
	decode(t, rec, &stats)
	assert.Equal(t, 2, stats.Data.TotalCustomers)
	assert.Len(t, stats.Data.Rates, 4)

	rec = s.do(t, http.MethodGet, "/api/v1/stats/provinces", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var provinces struct {
		Data []reporting.ProvinceStats `json:"data"`
	}
	decode(t, rec, &provinces)
	require.Len(t, provinces.Data, 2)
	assert.Equal(t, "Ontario", provinces.Data[0].Province)
}

func TestMonthlyReportEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/reports/monthly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Energy Provider Monthly Report - October 2026"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	rec = s.do(t, http.MethodGet, "/api/v1/reports/monthly?format=pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodGet, "/api/v1/reports/monthly?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/reports/monthly", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), s.path)
}

func TestMonthlyReportWriteFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir, err := ledger.NewDirectory(catalog.Default())
	require.NoError(t, err)
	bad := filepath.Join(t.TempDir(), "missing", "monthly_report.txt")
	h, err := NewHandler(dir, reporting.NewWriter(nil), ReportConfig{Path: bad}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/monthly", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "REPORT_WRITE_FAILED")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuditTrail(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/v1/customers/1001/usage", `{"amount":"600"}`)
	s.do(t, http.MethodPost, "/api/v1/customers/1001/usage", `{"amount":"100"}`)
	s.do(t, http.MethodPost, "/api/v1/billing/run", "")

	entries := s.audit.List(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "billing.run", entries[0].Action)
	assert.Equal(t, "usage.record", entries[1].Action)
	assert.Equal(t, "success", entries[1].Result)
	assert.Equal(t, "error", entries[2].Result)
	assert.Equal(t, "1001", entries[2].ResourceID)
	assert.NotEmpty(t, entries[2].PayloadDigest)

	rec := s.do(t, http.MethodGet, "/api/v1/audit?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Contains(t, rec.Body.String(), "billing.run")
}
