package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"utility-billing/internal/audit"
	ledger "utility-billing/internal/ledger/application"
	"utility-billing/internal/observability/metrics"
	"utility-billing/internal/reporting"
)

// ReportWriter persists monthly reports.
type ReportWriter interface {
	WriteAll(ctx context.Context, r reporting.MonthlyReport, path string, formats []reporting.Format) ([]string, error)
}

// ReportConfig selects where POST /api/v1/reports/monthly writes.
type ReportConfig struct {
	Path    string
	Formats []reporting.Format
}

// AuditTrail records and lists mutating operations.
type AuditTrail interface {
	audit.Logger
	List(limit int) []audit.Entry
}

// Handler serves the billing API over a Directory.
type Handler struct {
	dir     *ledger.Directory
	reports ReportWriter
	cfg     ReportConfig
	logger  *zap.Logger
	audit   AuditTrail
}

// Option configures a Handler.
type Option func(*Handler)

// WithAuditTrail records every mutating request.
func WithAuditTrail(trail AuditTrail) Option {
	return func(h *Handler) {
		if trail != nil {
			h.audit = trail
		}
	}
}

// NewHandler constructs a Handler.
func NewHandler(dir *ledger.Directory, reports ReportWriter, cfg ReportConfig, logger *zap.Logger, opts ...Option) (*Handler, error) {
	if dir == nil {
		return nil, errors.New("apihttp: nil directory")
	}
	if reports == nil {
		return nil, errors.New("apihttp: nil report writer")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{dir: dir, reports: reports, cfg: cfg, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

func (h *Handler) record(c *gin.Context, action, resourceType, resourceID string, err error, meta any) {
	if h.audit == nil {
		return
	}
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	var raw json.RawMessage
	if meta != nil {
		if data, mErr := json.Marshal(meta); mErr == nil {
			raw = data
		}
	}
	entry := audit.Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Result:       result,
		Metadata:     raw,
		IP:           c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}
	if lErr := h.audit.Log(c.Request.Context(), entry); lErr != nil {
		h.logger.Warn("audit log failed", zap.String("action", action), zap.Error(lErr))
	}
}

type usageRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

type paymentRequest struct {
	BillIndex *int             `json:"bill_index" binding:"required"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
}

type maintenanceRequest struct {
	Description string           `json:"description" binding:"required"`
	Cost        *decimal.Decimal `json:"cost" binding:"required"`
}

func (h *Handler) customerID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.respondBadRequest(c, "id must be an integer")
		return 0, false
	}
	return id, true
}

// ListCustomers handles GET /api/v1/customers?q=&province=.
func (h *Handler) ListCustomers(c *gin.Context) {
	results := h.dir.FindCustomers(c.Query("q"), c.Query("province"))
	c.JSON(http.StatusOK, gin.H{"data": results, "count": len(results)})
}

// GetCustomer handles GET /api/v1/customers/:id.
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}
	snap, err := h.dir.Customer(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// ListOverdue handles GET /api/v1/overdue.
func (h *Handler) ListOverdue(c *gin.Context) {
	results := h.dir.OverdueCustomers()
	c.JSON(http.StatusOK, gin.H{"data": results, "count": len(results)})
}

// RecordUsage handles POST /api/v1/customers/:id/usage.
func (h *Handler) RecordUsage(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}
	var req usageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err.Error())
		return
	}
	err := h.dir.RecordUsage(id, *req.Amount)
	h.record(c, "usage.record", "customer", c.Param("id"), err, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCustomer(c, id, http.StatusOK)
}

// Pay handles POST /api/v1/customers/:id/payments.
func (h *Handler) Pay(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err.Error())
		return
	}
	err := h.dir.Pay(id, *req.BillIndex, *req.Amount)
	h.record(c, "payment.apply", "customer", c.Param("id"), err, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCustomer(c, id, http.StatusOK)
}

// AddMaintenance handles POST /api/v1/customers/:id/maintenance.
func (h *Handler) AddMaintenance(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err.Error())
		return
	}
	err := h.dir.AddMaintenance(id, req.Description, *req.Cost)
	h.record(c, "maintenance.add", "customer", c.Param("id"), err, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondCustomer(c, id, http.StatusCreated)
}

func (h *Handler) respondCustomer(c *gin.Context, id, status int) {
	snap, err := h.dir.Customer(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"data": snap})
}

// RunBilling handles POST /api/v1/billing/run.
func (h *Handler) RunBilling(c *gin.Context) {
	run, err := h.dir.RunBillingCycle(c.Request.Context())
	h.record(c, "billing.run", "billing_run", run.RunID, err, run)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": run})
}

// RunReminders handles POST /api/v1/reminders/run.
func (h *Handler) RunReminders(c *gin.Context) {
	run := h.dir.RunReminders(c.Request.Context())
	h.record(c, "reminders.run", "reminder_run", run.RunID, nil, run)
	c.JSON(http.StatusOK, gin.H{"data": run})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dir.SystemStats()})
}

// ProvinceStats handles GET /api/v1/stats/provinces.
func (h *Handler) ProvinceStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dir.ProvinceStatistics()})
}

// GetMonthlyReport handles GET /api/v1/reports/monthly?format=txt|xlsx|pdf|json.
func (h *Handler) GetMonthlyReport(c *gin.Context) {
	report := h.dir.MonthlyReport()
	name := c.DefaultQuery("format", string(reporting.FormatText))
	if name == "json" {
		c.JSON(http.StatusOK, gin.H{"data": report})
		return
	}
	format, err := reporting.ParseFormat(name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	data, err := reporting.Render(report, format)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+reporting.PathFor(reporting.DefaultPath, format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// WriteMonthlyReport handles POST /api/v1/reports/monthly.
func (h *Handler) WriteMonthlyReport(c *gin.Context) {
	report := h.dir.MonthlyReport()
	paths, err := h.reports.WriteAll(c.Request.Context(), report, h.cfg.Path, h.cfg.Formats)
	h.record(c, "report.write", "monthly_report", report.ID, err, gin.H{"paths": paths})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"report_id": report.ID, "title": report.Title(), "paths": paths}})
}

// ListAudit handles GET /api/v1/audit?limit=N.
func (h *Handler) ListAudit(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusOK, gin.H{"data": []audit.Entry{}, "count": 0})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		h.respondBadRequest(c, "limit must be an integer")
		return
	}
	entries := h.audit.List(limit)
	c.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
}
