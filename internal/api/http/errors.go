package apihttp

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"utility-billing/internal/catalog"
	customers "utility-billing/internal/customers/domain"
	ledger "utility-billing/internal/ledger/application"
	"utility-billing/internal/reporting"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

type apiError struct {
	status int
	code   string
}

func mapError(err error) apiError {
	var writeErr *reporting.WriteError
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound):
		return apiError{http.StatusNotFound, "CUSTOMER_NOT_FOUND"}
	case errors.Is(err, ledger.ErrDuplicateCustomer):
		return apiError{http.StatusConflict, "DUPLICATE_CUSTOMER"}
	case errors.Is(err, customers.ErrUsageExceedsAllocation):
		return apiError{http.StatusUnprocessableEntity, "USAGE_EXCEEDS_ALLOCATION"}
	case errors.Is(err, customers.ErrInsufficientPayment):
		return apiError{http.StatusUnprocessableEntity, "INSUFFICIENT_PAYMENT"}
	case errors.Is(err, customers.ErrBillIndexOutOfRange):
		return apiError{http.StatusNotFound, "BILL_NOT_FOUND"}
	case errors.Is(err, customers.ErrNegativeUsage),
		errors.Is(err, customers.ErrNegativePayment),
		errors.Is(err, customers.ErrNegativeCost),
		errors.Is(err, customers.ErrInvalidCustomer),
		errors.Is(err, catalog.ErrUnknownKind),
		errors.Is(err, reporting.ErrUnknownFormat):
		return apiError{http.StatusBadRequest, "VALIDATION_ERROR"}
	case errors.As(err, &writeErr):
		return apiError{http.StatusInternalServerError, "REPORT_WRITE_FAILED"}
	default:
		return apiError{http.StatusInternalServerError, "INTERNAL_ERROR"}
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	mapped := mapError(err)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("code", mapped.code),
		zap.Error(err),
	}
	if mapped.status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Info("request rejected", fields...)
	}
	c.AbortWithStatusJSON(mapped.status, ErrorResponse{
		Code:      mapped.code,
		Message:   err.Error(),
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:      "VALIDATION_ERROR",
		Message:   message,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
