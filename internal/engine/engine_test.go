package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chrisdamba/ordersim/internal/factories"
	"github.com/chrisdamba/ordersim/internal/models"
)

// memorySink captures published events in memory. failAll makes every
// publish fail; onPublish fires after each successful capture with the
// running total.
type memorySink struct {
	mu        sync.Mutex
	events    []models.OrderEvent
	failAll   bool
	onPublish func(total int)
}

func (m *memorySink) WriteMessage(topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errors.New("sink unavailable")
	}
	var event models.OrderEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	m.events = append(m.events, event)
	if m.onPublish != nil {
		m.onPublish(len(m.events))
	}
	return nil
}

func (m *memorySink) Close() error { return nil }

func (m *memorySink) all() []models.OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.OrderEvent, len(m.events))
	copy(out, m.events)
	return out
}

// fakeClock fast-forwards: every wait returns immediately after advancing
// the internal instant by the requested delay.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock { return &fakeClock{now: start} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

func testConfig() *models.Config {
	return &models.Config{
		Seed:               7,
		AvgDailyOrders:     200,
		LookbackDays:       2,
		WeekdayMultipliers: models.DefaultWeekdayMultipliers,
		JitterLow:          0.85,
		JitterHigh:         1.15,
		CatalogSource:      models.CatalogSourceGenerated,
		InitialBrands:      5,
	}
}

func TestEngineRun_SeamlessHandoff(t *testing.T) {
	cfg := testConfig()
	start := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)
	horizon := start

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &memorySink{}
	var realtimeSeen int
	sink.onPublish = func(total int) {
		if sink.events[total-1].Timestamp.After(horizon) {
			realtimeSeen++
			if realtimeSeen >= 5 {
				cancel()
			}
		}
	}

	eng := New(cfg, factories.NewCatalogFactory(cfg.InitialBrands, cfg.Seed), sink)
	eng.Clock = newFakeClock(start)

	if err := eng.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := sink.all()
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}

	var backfilled, realtime int
	for i, ev := range events {
		if i > 0 && ev.Timestamp.Before(events[i-1].Timestamp) {
			t.Fatalf("event %d out of order: %s before %s", i, ev.Timestamp, events[i-1].Timestamp)
		}
		if ev.Timestamp.After(horizon) {
			realtime++
		} else {
			backfilled++
		}
	}
	if backfilled == 0 {
		t.Error("expected backfilled events before the horizon")
	}
	if realtime < 5 {
		t.Errorf("expected at least 5 realtime events, got %d", realtime)
	}

	lookbackStart := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	for _, ev := range events {
		if ev.Timestamp.Before(lookbackStart) {
			t.Fatalf("event %s predates the lookback window", ev.Timestamp)
		}
	}
}

func TestEngineRun_InvalidConfigFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.AvgDailyOrders = 0

	sink := &memorySink{}
	eng := New(cfg, factories.NewCatalogFactory(5, 1), sink)
	eng.Clock = newFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	err := eng.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error for zero average_daily_orders")
	}
	if !strings.Contains(err.Error(), "average_daily_orders") {
		t.Errorf("error should name the invalid parameter, got: %v", err)
	}
	if len(sink.all()) != 0 {
		t.Error("no events should be produced before validation")
	}
}

type staticCatalog struct {
	snapshot *models.CatalogSnapshot
}

func (s *staticCatalog) GetBrandsWithItems(context.Context) (*models.CatalogSnapshot, error) {
	return s.snapshot, nil
}

func TestEngineRun_EmptyBrandIsFatal(t *testing.T) {
	cfg := testConfig()
	catalog := &staticCatalog{snapshot: &models.CatalogSnapshot{Brands: []models.Brand{
		{ID: "b1", Name: "Tasty Kitchen", Items: []models.Item{{ID: "i1", Name: "French Fries", Price: 3.99}}},
		{ID: "b2", Name: "Empty Bistro"},
	}}}

	sink := &memorySink{}
	eng := New(cfg, catalog, sink)
	eng.Clock = newFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	err := eng.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error for a brand without items")
	}
	if !strings.Contains(err.Error(), "Empty Bistro") {
		t.Errorf("error should name the offending brand, got: %v", err)
	}
	if len(sink.all()) != 0 {
		t.Error("no events should be produced for a non-simulatable catalog")
	}
}
