package apihttp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/customers", h.ListCustomers)
		v1.GET("/customers/:id", h.GetCustomer)
		v1.POST("/customers/:id/usage", h.RecordUsage)
		v1.POST("/customers/:id/payments", h.Pay)
		v1.POST("/customers/:id/maintenance", h.AddMaintenance)
		v1.GET("/overdue", h.ListOverdue)
		v1.POST("/billing/run", h.RunBilling)
		v1.POST("/reminders/run", h.RunReminders)
		v1.GET("/stats", h.Stats)
		v1.GET("/stats/provinces", h.ProvinceStats)
		v1.GET("/reports/monthly", h.GetMonthlyReport)
		v1.POST("/reports/monthly", h.WriteMonthlyReport)
		v1.GET("/audit", h.ListAudit)
	}
	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
