package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(coderMessages.WithLabelValues("json", "decode", "ping"))
	RecordCoderMessage("json", "decode", "ping")
	after := testutil.ToFloat64(coderMessages.WithLabelValues("json", "decode", "ping"))
	if after != before+1 {
		t.Fatalf("expected counter to advance by 1: before=%v after=%v", before, after)
	}

	RecordCoderError("json", "decode", "parse")
	if got := testutil.ToFloat64(coderErrors.WithLabelValues("json", "decode", "parse")); got < 1 {
		t.Fatalf("expected error counter recorded, got %v", got)
	}
	RecordEncodedSize("json", "ping", 28)
}
