package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsRecordsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.ObserveMutation("add", nil)
	m.ObserveMutation("add", nil)
	m.ObserveMutation("clear", errors.New("disk full"))
	m.ObserveCoupon("applied")
	m.ObserveCoupon("")
	m.ObservePurchase(3)
	m.ObserveStorageWrite("complete_purchase", 10*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	if got := counterValue(families, "cart_mutations_total", map[string]string{"op": "add", "result": "ok"}); got != 2 {
		t.Fatalf("expected 2 successful adds, got %v", got)
	}
	if got := counterValue(families, "cart_mutations_total", map[string]string{"op": "clear", "result": "error"}); got != 1 {
		t.Fatalf("expected 1 failed clear, got %v", got)
	}
	if got := counterValue(families, "coupon_applications_total", map[string]string{"outcome": "unknown"}); got != 1 {
		t.Fatalf("expected empty outcome normalized to unknown, got %v", got)
	}
	if got := counterValue(families, "purchased_items_total", nil); got != 3 {
		t.Fatalf("expected 3 purchased items, got %v", got)
	}
}

func TestCartMetricsNilSafe(t *testing.T) {
	var m *CartMetrics
	m.ObserveMutation("add", nil)
	m.ObservePurchase(1)

	empty := NewCartMetrics(nil)
	empty.ObserveCoupon("applied")
	empty.ObserveStorageWrite("add", time.Second)
}

func counterValue(families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return -1
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, pair := range pairs {
		if want[pair.GetName()] != pair.GetValue() {
			return false
		}
	}
	return true
}
