package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/chrisdamba/ordersim/internal/output"
	"github.com/chrisdamba/ordersim/internal/repositories"
)

// Engine owns the single logical timeline of a run: an instant replay of the
// lookback window that meets, without gap or overlap, wall-clock paced
// generation of the future. The horizon instant captured at startup is the
// seam between the two regimes and never changes afterwards.
type Engine struct {
	Config  *models.Config
	Catalog repositories.CatalogRepository
	Sink    output.OutputDestination
	Clock   Clock
	Rng     *rand.Rand

	ShowProgress bool
}

func New(cfg *models.Config, catalog repositories.CatalogRepository, sink output.OutputDestination) *Engine {
	return &Engine{
		Config:  cfg,
		Catalog: catalog,
		Sink:    sink,
		Clock:   SystemClock(),
		Rng:     rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Run loads the catalog once, backfills history to completion and then hands
// the same demand parameters to the realtime scheduler, which runs until ctx
// is cancelled. Configuration and catalog problems fail fast, before any
// event is produced.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	snapshot, err := e.Catalog.GetBrandsWithItems(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	log.Printf("catalog loaded: %d brands, %d items", len(snapshot.Brands), snapshot.ItemCount())

	demand := NewDemandModel(e.Config.DemandParameters(), e.Rng)
	synth := NewOrderSynthesizer(snapshot, e.Rng)

	horizon := e.Clock.Now().UTC().Truncate(time.Second)
	start := horizon.AddDate(0, 0, -e.Config.LookbackDays)

	backfill := NewBackfillScheduler(demand, synth, e.Sink, e.Rng)
	backfill.ShowProgress = e.ShowProgress
	log.Printf("backfilling from %s to horizon %s", start.Format(time.RFC3339), horizon.Format(time.RFC3339))
	if err := backfill.Run(start, horizon); err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	log.Printf("entering realtime generation at %.5f orders/sec", e.Config.AvgDailyOrders/models.SecondsPerDay)
	realtime := NewRealtimeScheduler(e.Config.AvgDailyOrders, synth, e.Sink, e.Rng, e.Clock, e.Config.RealtimeAbortOnPublishError)
	return realtime.Run(ctx)
}

func publishOrder(sink output.OutputDestination, event models.OrderEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialise order %s: %w", event.OrderID, err)
	}
	return sink.WriteMessage(models.TopicOrderEvents, msg)
}
