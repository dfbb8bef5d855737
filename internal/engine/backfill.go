package engine

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/chrisdamba/ordersim/internal/output"
	"github.com/schollz/progressbar/v3"
)

// BackfillScheduler replays historical demand from the lookback start up to
// the horizon instant. It runs synchronously in simulated time and returns
// once the horizon day is exhausted; it never waits on the wall clock.
type BackfillScheduler struct {
	demand *DemandModel
	synth  *OrderSynthesizer
	sink   output.OutputDestination
	rng    *rand.Rand

	ShowProgress bool
}

func NewBackfillScheduler(demand *DemandModel, synth *OrderSynthesizer, sink output.OutputDestination, rng *rand.Rand) *BackfillScheduler {
	return &BackfillScheduler{demand: demand, synth: synth, sink: sink, rng: rng}
}

// Run walks calendar days from startDate through the horizon's day,
// publishing every planned arrival in timestamp order. A failed publish
// aborts the run immediately: a partial historical dataset is worse than
// none, since downstream consumers expect completeness per day.
func (bs *BackfillScheduler) Run(startDate, horizon time.Time) error {
	day := midnight(startDate)
	horizonDay := midnight(horizon)

	var bar *progressbar.ProgressBar
	if bs.ShowProgress {
		totalDays := int64(horizonDay.Sub(day).Hours()/24) + 1
		bar = progressbar.Default(totalDays, "backfilling")
	}

	var emitted int
	for !day.After(horizonDay) {
		for _, ts := range bs.planDay(day, horizon) {
			event := bs.synth.Synthesize(ts)
			if err := publishOrder(bs.sink, event); err != nil {
				return fmt.Errorf("backfill publish at %s: %w", ts.Format(time.RFC3339), err)
			}
			emitted++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		day = day.AddDate(0, 0, 1)
	}

	log.Printf("backfill complete: %d events up to %s", emitted, horizon.Format(time.RFC3339))
	return nil
}

// planDay builds the arrival plan for one calendar day: a sorted sequence of
// instants, each within [midnight(day), midnight(day)+span). For the cutoff
// day the span ends at the horizon instant; collisions are allowed, so two
// orders may share a second.
func (bs *BackfillScheduler) planDay(day, horizon time.Time) []time.Time {
	isCutoff := day.Equal(midnight(horizon))
	span := models.SecondsPerDay
	fraction := 1.0
	if isCutoff {
		span = int(horizon.Sub(day).Seconds())
		if span == 0 {
			// run started exactly at midnight, nothing to back-fill today
			return nil
		}
		fraction = float64(span) / models.SecondsPerDay
	}

	n := bs.demand.ExpectedOrders(day, isCutoff, fraction)
	if n <= 0 {
		return nil
	}

	offsets := make([]int, n)
	for i := range offsets {
		offsets[i] = bs.rng.Intn(span)
	}
	sort.Ints(offsets)

	plan := make([]time.Time, n)
	for i, sec := range offsets {
		plan[i] = day.Add(time.Duration(sec) * time.Second)
	}
	return plan
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
