package engine

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/ordersim/internal/factories"
	"github.com/chrisdamba/ordersim/internal/models"
)

func newBackfillFixture(t *testing.T, avgDailyOrders float64, seed int64, sink *memorySink) *BackfillScheduler {
	t.Helper()
	catalog, err := factories.NewCatalogFactory(5, seed).GetBrandsWithItems(nil)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	rng := rand.New(rand.NewSource(seed))
	params := models.DemandParameters{
		AverageDailyOrders: avgDailyOrders,
		WeekdayMultipliers: [7]float64{0.8, 0.9, 1.0, 1.1, 1.2, 1.5, 1.3},
		JitterLow:          0.85,
		JitterHigh:         1.15,
	}
	demand := NewDemandModel(params, rng)
	synth := NewOrderSynthesizer(catalog, rng)
	return NewBackfillScheduler(demand, synth, sink, rng)
}

func TestBackfillRun_OrderedAndBounded(t *testing.T) {
	sink := &memorySink{}
	bs := newBackfillFixture(t, 50, 11, sink)

	horizon := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	start := horizon.AddDate(0, 0, -3)

	if err := bs.Run(start, horizon); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := sink.all()
	if len(events) == 0 {
		t.Fatal("expected backfilled events")
	}

	windowStart := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	for i, ev := range events {
		if i > 0 && ev.Timestamp.Before(events[i-1].Timestamp) {
			t.Fatalf("event %d out of order: %s before %s", i, ev.Timestamp, events[i-1].Timestamp)
		}
		if ev.Timestamp.Before(windowStart) {
			t.Fatalf("event %s before window start %s", ev.Timestamp, windowStart)
		}
		if ev.Timestamp.After(horizon) {
			t.Fatalf("backfill event %s after horizon %s", ev.Timestamp, horizon)
		}
	}
}

func TestBackfillRun_MidnightHorizonSkipsCutoffDay(t *testing.T) {
	sink := &memorySink{}
	bs := newBackfillFixture(t, 5, 23, sink)

	// horizon at exactly midnight: the cutoff day has elapsed nothing
	horizon := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	start := horizon.AddDate(0, 0, -3)

	if err := bs.Run(start, horizon); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	perDay := make(map[string]int)
	for _, ev := range sink.all() {
		if !ev.Timestamp.Before(horizon) {
			t.Fatalf("event %s on or after a midnight horizon", ev.Timestamp)
		}
		perDay[ev.Timestamp.Format("2006-01-02")]++
	}

	if perDay["2025-03-15"] != 0 {
		t.Errorf("cutoff day with zero elapsed fraction contributed %d events", perDay["2025-03-15"])
	}
	for _, day := range []string{"2025-03-12", "2025-03-13", "2025-03-14"} {
		if perDay[day] == 0 {
			t.Errorf("full day %s produced no events", day)
		}
	}
}

func TestBackfillRun_AbortsOnPublishFailure(t *testing.T) {
	sink := &memorySink{failAll: true}
	bs := newBackfillFixture(t, 50, 5, sink)

	horizon := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	err := bs.Run(horizon.AddDate(0, 0, -1), horizon)
	if err == nil {
		t.Fatal("expected the run to abort on a failed publish")
	}
	if !strings.Contains(err.Error(), "backfill publish") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPlanDay_WithinUsableSpan(t *testing.T) {
	bs := newBackfillFixture(t, 200, 17, &memorySink{})

	horizon := time.Date(2025, 3, 15, 6, 0, 0, 0, time.UTC)
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	plan := bs.planDay(day, horizon)
	if len(plan) == 0 {
		t.Fatal("expected arrivals on a quarter-elapsed cutoff day")
	}
	for i, ts := range plan {
		if i > 0 && ts.Before(plan[i-1]) {
			t.Fatalf("plan not sorted at %d", i)
		}
		if ts.Before(day) || !ts.Before(horizon) {
			t.Fatalf("arrival %s outside [%s, %s)", ts, day, horizon)
		}
	}
}

func TestPlanDay_FullDayStaysInsideDay(t *testing.T) {
	bs := newBackfillFixture(t, 500, 29, &memorySink{})

	horizon := time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	for _, ts := range bs.planDay(day, horizon) {
		if ts.Before(day) || !ts.Before(nextDay) {
			t.Fatalf("arrival %s outside its calendar day", ts)
		}
	}
}
