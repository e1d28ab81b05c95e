package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                *prometheus.Registry
	OrdersCreated      *prometheus.CounterVec
	RecordsRead        prometheus.Counter
	DocumentsConverted prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orderkit_orders_created_total",
		Help: "Orders created, by subscription tier.",
	}, []string{"tier"})
	recordsRead := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderkit_records_read_total"})
	converted := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderkit_documents_converted_total"})

	r.MustRegister(ordersCreated, recordsRead, converted)
	return &Registry{
		reg:                r,
		OrdersCreated:      ordersCreated,
		RecordsRead:        recordsRead,
		DocumentsConverted: converted,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
