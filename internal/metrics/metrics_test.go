package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordUpgrade(t *testing.T) {
	levels := testutil.ToFloat64(LevelsPurchased)
	spent := testutil.ToFloat64(CurrencySpent)

	RecordUpgrade(3, 21)
	RecordUpgrade(0, 0)

	if got := testutil.ToFloat64(LevelsPurchased) - levels; got != 3 {
		t.Errorf("levels purchased delta: got %v, want 3", got)
	}
	if got := testutil.ToFloat64(CurrencySpent) - spent; got != 21 {
		t.Errorf("currency spent delta: got %v, want 21", got)
	}
}

func TestIncStaleWrites(t *testing.T) {
	before := testutil.ToFloat64(StaleWrites.WithLabelValues("collect"))
	IncStaleWrites("collect")
	if got := testutil.ToFloat64(StaleWrites.WithLabelValues("collect")) - before; got != 1 {
		t.Errorf("stale writes delta: got %v, want 1", got)
	}
}

func TestAddCurrencyCollected_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(CurrencyCollected)
	AddCurrencyCollected(-5)
	AddCurrencyCollected(0)
	AddCurrencyCollected(2.5)
	if got := testutil.ToFloat64(CurrencyCollected) - before; got != 2.5 {
		t.Errorf("collected delta: got %v, want 2.5", got)
	}
}

func TestRecordRequest(t *testing.T) {
	RecordRequest("PATCH", "/collect", 200, 0.01)
	if got := testutil.ToFloat64(RequestTotal.WithLabelValues("PATCH", "/collect", "200")); got < 1 {
		t.Errorf("request total: got %v, want >= 1", got)
	}
}
