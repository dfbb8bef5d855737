package engine

import (
	"context"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/chrisdamba/ordersim/internal/output"
)

// RealtimeScheduler paces order generation against the wall clock using
// exponentially distributed inter-arrival delays. It is the only unbounded
// operation in the engine and runs until its context is cancelled.
type RealtimeScheduler struct {
	rate  float64 // events per second
	synth *OrderSynthesizer
	sink  output.OutputDestination
	rng   *rand.Rand
	clock Clock

	abortOnPublishError bool
	publishFailures     atomic.Int64
	lastEmitted         time.Time
}

func NewRealtimeScheduler(avgDailyOrders float64, synth *OrderSynthesizer, sink output.OutputDestination, rng *rand.Rand, clock Clock, abortOnPublishError bool) *RealtimeScheduler {
	return &RealtimeScheduler{
		rate:                avgDailyOrders / models.SecondsPerDay,
		synth:               synth,
		sink:                sink,
		rng:                 rng,
		clock:               clock,
		abortOnPublishError: abortOnPublishError,
	}
}

// Run loops waiting, synthesizing and publishing until ctx is cancelled.
// Cancellation is honored only while waiting, so an in-flight event is
// always published whole. A clean cancellation returns nil.
func (rs *RealtimeScheduler) Run(ctx context.Context) error {
	for {
		delay := time.Duration(rs.rng.ExpFloat64() / rs.rate * float64(time.Second))
		select {
		case <-ctx.Done():
			return nil
		case <-rs.clock.After(delay):
		}

		// stamp with the current clock read, not the sampled instant;
		// execution always lags the sample slightly
		now := rs.clock.Now()
		if !rs.lastEmitted.IsZero() && now.Before(rs.lastEmitted) {
			log.Printf("system clock moved backwards (%s < %s), clamping elapsed time",
				now.Format(time.RFC3339), rs.lastEmitted.Format(time.RFC3339))
			now = rs.lastEmitted
		}

		event := rs.synth.Synthesize(now)
		if err := publishOrder(rs.sink, event); err != nil {
			failures := rs.publishFailures.Add(1)
			log.Printf("failed to publish order %s: %v (%d publish failures so far)", event.OrderID, err, failures)
			if rs.abortOnPublishError {
				return err
			}
		}
		rs.lastEmitted = now
	}
}

// PublishFailures reports how many realtime publishes have failed so far.
func (rs *RealtimeScheduler) PublishFailures() int64 {
	return rs.publishFailures.Load()
}
