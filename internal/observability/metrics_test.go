package observability

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, 7*time.Millisecond)
	m.RecordError("/tickets", "POST", "VALIDATION_FAILED")

	requests, errors := m.Snapshot()
	if requests["/tickets|GET|200"] != 2 {
		t.Errorf("request count = %d, want 2", requests["/tickets|GET|200"])
	}
	if errors["/tickets|POST|VALIDATION_FAILED"] != 1 {
		t.Errorf("error count = %d, want 1", errors["/tickets|POST|VALIDATION_FAILED"])
	}

	// Snapshot is a copy, not a view.
	requests["/tickets|GET|200"] = 99
	fresh, _ := m.Snapshot()
	if fresh["/tickets|GET|200"] != 2 {
		t.Error("snapshot aliases internal state")
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, 0)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")
}
