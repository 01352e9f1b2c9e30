package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations, coupon outcomes and purchase volume.
type CartMetrics struct {
	mutations    *prometheus.CounterVec
	coupons      *prometheus.CounterVec
	purchases    prometheus.Counter
	itemsSold    prometheus.Counter
	storageWrite *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
// A nil registerer yields a recorder whose methods do nothing.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations by operation and result.",
	}, []string{"op", "result"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_applications_total",
		Help: "Coupon application attempts by outcome.",
	}, []string{"outcome"})
	purchases := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "purchases_completed_total",
		Help: "Completed purchase transitions.",
	})
	itemsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "purchased_items_total",
		Help: "Items archived into the purchase log.",
	})
	storageWrite := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storage_write_duration_seconds",
		Help:    "Duration of durable storage writes.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(mutations, coupons, purchases, itemsSold, storageWrite)
	return &CartMetrics{
		mutations:    mutations,
		coupons:      coupons,
		purchases:    purchases,
		itemsSold:    itemsSold,
		storageWrite: storageWrite,
	}
}

// ObserveMutation counts a cart operation; err decides the result label.
func (m *CartMetrics) ObserveMutation(op string, err error) {
	if m == nil || m.mutations == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mutations.WithLabelValues(normalizeLabel(op), result).Inc()
}

// ObserveStorageWrite records how long a durable write took.
func (m *CartMetrics) ObserveStorageWrite(op string, duration time.Duration) {
	if m == nil || m.storageWrite == nil {
		return
	}
	m.storageWrite.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// ObserveCoupon counts an apply attempt. outcome is "applied" or a rejection reason.
func (m *CartMetrics) ObserveCoupon(outcome string) {
	if m == nil || m.coupons == nil {
		return
	}
	m.coupons.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObservePurchase counts a completed purchase and its item count.
func (m *CartMetrics) ObservePurchase(items int) {
	if m == nil || m.purchases == nil {
		return
	}
	m.purchases.Inc()
	m.itemsSold.Add(float64(items))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
