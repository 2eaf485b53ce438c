package metrics

import (
	"testing"
	"time"
)

func TestCollector(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(403, 20*time.Millisecond)
	c.Record(429, 5*time.Millisecond)
	c.Record(500, 15*time.Millisecond)

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(4) {
		t.Errorf("requestsTotal = %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"] != uint64(1) {
		t.Errorf("errorsTotal = %v", snap["errorsTotal"])
	}
	if snap["deniedTotal"] != uint64(1) {
		t.Errorf("deniedTotal = %v", snap["deniedTotal"])
	}
	if snap["rateLimitedTotal"] != uint64(1) {
		t.Errorf("rateLimitedTotal = %v", snap["rateLimitedTotal"])
	}
	if snap["totalDurationMs"] != uint64(50) {
		t.Errorf("totalDurationMs = %v", snap["totalDurationMs"])
	}
}
