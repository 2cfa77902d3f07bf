package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ShipmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipment_tracker_shipments_created_total",
		Help: "Total number of shipments successfully registered.",
	})

	StatusAppendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipment_tracker_status_appends_total",
		Help: "Total number of status log entries appended, by new status.",
	},
		[]string{"status"},
	)

	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipment_tracker_lookups_total",
		Help: "Total number of public tracking lookups, by result.",
	},
		[]string{"result"},
	)

	RateLimitRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipment_tracker_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter, by operation.",
	},
		[]string{"operation"},
	)

	QuotesSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipment_tracker_quotes_submitted_total",
		Help: "Total number of quote requests successfully stored.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipment_tracker_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ViewCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shipment_tracker_view_cache_items",
		Help: "Current number of shipment views in the lookup cache.",
	})

	OutboxPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipment_tracker_outbox_published_total",
		Help: "Total number of outbox tasks handed to the broker, by outcome.",
	},
		[]string{"outcome"},
	)

	AuditEventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipment_tracker_audit_events_dropped_total",
		Help: "Total number of audit events dropped because the buffer was full.",
	})
)
