package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ItemsCreated        *prometheus.CounterVec
	DisposalsTotal      prometheus.Counter
	RenumberEventsTotal prometheus.Counter
	YearTransitionItems prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ItemsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "malkhana_registry_items_created_total",
			Help: "Total number of evidence items created, by registry type",
		}, []string{"registry_type"}),
		DisposalsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "malkhana_registry_disposals_total",
			Help: "Total number of evidence items disposed",
		}),
		RenumberEventsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "malkhana_registry_renumber_events_total",
			Help: "Total number of red ink renumber events recorded",
		}),
		YearTransitionItems: promauto.NewCounter(prometheus.CounterOpts{
			Name: "malkhana_registry_year_transition_items_total",
			Help: "Total number of items moved to red ink by year transitions",
		}),
	}
}

func (m *Metrics) IncrementItemsCreated(registryType string) {
	m.ItemsCreated.WithLabelValues(registryType).Inc()
}

func (m *Metrics) IncrementDisposals() {
	m.DisposalsTotal.Inc()
}

func (m *Metrics) AddRenumberEvents(n int) {
	m.RenumberEventsTotal.Add(float64(n))
}

func (m *Metrics) AddYearTransitionItems(n int) {
	m.YearTransitionItems.Add(float64(n))
}
