package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "energy_billing_"

	// ResultSuccess and ResultError label the outcome of an observed operation.
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	billingRunTotal   *prometheus.CounterVec
	billingRunLatency *prometheus.HistogramVec
	billsIssuedTotal  prometheus.Counter

	usageRejectedTotal *prometheus.CounterVec
	paymentsTotal      *prometheus.CounterVec

	reminderRunTotal   *prometheus.CounterVec
	remindersSentTotal prometheus.Counter
	reminderFailures   prometheus.Counter

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec
	reportExportTotal     *prometheus.CounterVec
	reportExportLatency   *prometheus.HistogramVec
)

// Sources supplies live values for gauges computed at scrape time.
type Sources struct {
	Customers        func() int
	OverdueCustomers func() int
}

// Init registers billing metrics on reg. A nil reg uses the default registerer.
func Init(reg prometheus.Registerer, sources Sources) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		billingRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "billing_run_total",
				Help: "Total billing cycle runs by result",
			},
			[]string{"result"},
		)
		billingRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "billing_run_latency_seconds",
				Help:    "Billing cycle latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		billsIssuedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "bills_issued_total",
				Help: "Total bills issued by billing cycles",
			},
		)

		usageRejectedTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "usage_rejected_total",
				Help: "Total rejected usage records by reason",
			},
			[]string{"reason"},
		)
		paymentsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payments_total",
				Help: "Total payment attempts by result",
			},
			[]string{"result"},
		)

		reminderRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reminder_run_total",
				Help: "Total reminder runs by result",
			},
			[]string{"result"},
		)
		remindersSentTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "reminders_sent_total",
				Help: "Total reminders handed to a notifier",
			},
		)
		reminderFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "reminder_failures_total",
				Help: "Total reminders that could not be rendered or delivered",
			},
		)

		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total monthly report builds by result",
			},
			[]string{"result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Monthly report build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		reg.MustRegister(
			billingRunTotal,
			billingRunLatency,
			billsIssuedTotal,
			usageRejectedTotal,
			paymentsTotal,
			reminderRunTotal,
			remindersSentTotal,
			reminderFailures,
			reportGenerateTotal,
			reportGenerateLatency,
			reportExportTotal,
			reportExportLatency,
		)

		registerDirectoryGauges(reg, sources)
	})
}

func registerDirectoryGauges(reg prometheus.Registerer, sources Sources) {
	if sources.Customers != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "customers",
				Help: "Registered customers",
			},
			func() float64 { return float64(sources.Customers()) },
		))
	}
	if sources.OverdueCustomers != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "overdue_customers",
				Help: "Customers with at least one overdue bill",
			},
			func() float64 { return float64(sources.OverdueCustomers()) },
		))
	}
}

// ObserveBillingRun records a billing cycle's latency, result and bill count.
func ObserveBillingRun(result string, billed int, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if billingRunTotal != nil {
		billingRunTotal.WithLabelValues(result).Inc()
	}
	if billingRunLatency != nil {
		billingRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if billsIssuedTotal != nil && billed > 0 {
		billsIssuedTotal.Add(float64(billed))
	}
}

// IncUsageRejected increments the rejected usage counter.
func IncUsageRejected(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if usageRejectedTotal != nil {
		usageRejectedTotal.WithLabelValues(reason).Inc()
	}
}

// IncPayment increments the payment counter.
func IncPayment(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if paymentsTotal != nil {
		paymentsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveReminderRun records a reminder run and its send counts.
func ObserveReminderRun(result string, sent, failed int) {
	if result == "" {
		result = ResultSuccess
	}
	if reminderRunTotal != nil {
		reminderRunTotal.WithLabelValues(result).Inc()
	}
	if remindersSentTotal != nil && sent > 0 {
		remindersSentTotal.Add(float64(sent))
	}
	if reminderFailures != nil && failed > 0 {
		reminderFailures.Add(float64(failed))
	}
}

// ObserveReportGenerate records report build latency and result.
func ObserveReportGenerate(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if reportGenerateTotal != nil {
		reportGenerateTotal.WithLabelValues(result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveReportExport records export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}
