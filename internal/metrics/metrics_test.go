// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordResultIncrementsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordResult(true, 2, []string{"M1", "M2"}, 1, 3)

	if got := testutil.ToFloat64(m.NetsChecked); got != 1 {
		t.Errorf("NetsChecked = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.NetViolations); got != 1 {
		t.Errorf("NetViolations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PinViolations); got != 2 {
		t.Errorf("PinViolations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RepairSaturations); got != 1 {
		t.Errorf("RepairSaturations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DiodesInserted); got != 3 {
		t.Errorf("DiodesInserted = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.ViolationsByLayer.WithLabelValues("M1")); got != 1 {
		t.Errorf("ViolationsByLayer[M1] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ViolationsByLayer.WithLabelValues("M2")); got != 1 {
		t.Errorf("ViolationsByLayer[M2] = %v, want 1", got)
	}
}

func TestRecordResultCleanNetDoesNotTouchViolationCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordResult(false, 0, nil, 0, 0)

	if got := testutil.ToFloat64(m.NetsChecked); got != 1 {
		t.Errorf("NetsChecked = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.NetViolations); got != 0 {
		t.Errorf("NetViolations = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.PinViolations); got != 0 {
		t.Errorf("PinViolations = %v, want 0", got)
	}
}

func TestRecordSkipIncrementsByReason(t *testing.T) {
	m := NewMetrics()

	m.RecordSkip("special")
	m.RecordSkip("special")
	m.RecordSkip("empty")

	if got := testutil.ToFloat64(m.NetsSkipped.WithLabelValues("special")); got != 2 {
		t.Errorf("NetsSkipped[special] = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.NetsSkipped.WithLabelValues("empty")); got != 1 {
		t.Errorf("NetsSkipped[empty] = %v, want 1", got)
	}
}
