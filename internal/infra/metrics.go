package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation counters scraped via /metrics.
var (
	TicketsGuardados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kooltpv_tickets_guardados_total",
		Help: "Tickets persisted successfully.",
	})
	CierresComputados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kooltpv_cierres_computados_total",
		Help: "Closings computed, labelled by type (Z/X) and outcome.",
	}, []string{"tipo", "resultado"})
	ReconciliacionesDivergentes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kooltpv_reconciliaciones_divergentes_total",
		Help: "Closing detail reads whose recomputed totals diverged from the stored ones.",
	})
)
