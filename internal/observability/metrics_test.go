package observability

import (
	"testing"
	"time"

	"github.com/danmuck/verbridge/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	RecordChainBuild("v3", "v1", true)

	before := testutil.ToFloat64(packetsEmitted.WithLabelValues("outbound", "v1"))
	RecordPacket("outbound", "v1", 2, 40*time.Microsecond)
	after := testutil.ToFloat64(packetsEmitted.WithLabelValues("outbound", "v1"))
	if after-before != 2 {
		t.Fatalf("expected fan-out of 2 counted, got %v", after-before)
	}

	RecordDrop("inbound", "v1", "unknown_packet")
	if got := testutil.ToFloat64(translateErrors.WithLabelValues("inbound", "unknown_packet")); got < 1 {
		t.Fatalf("expected drop recorded, got %v", got)
	}

	open := testutil.ToFloat64(sessionsOpen)
	SessionOpened()
	SessionClosed()
	if testutil.ToFloat64(sessionsOpen) != open {
		t.Fatalf("session gauge should return to %v", open)
	}
}
