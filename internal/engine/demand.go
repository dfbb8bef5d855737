package engine

import (
	"math/rand"
	"time"

	"github.com/chrisdamba/ordersim/internal/models"
)

// DemandModel maps a calendar day to an expected order count. It is a pure
// function of its inputs and the injected random source, so seeded runs are
// reproducible.
type DemandModel struct {
	params models.DemandParameters
	rng    *rand.Rand
}

func NewDemandModel(params models.DemandParameters, rng *rand.Rand) *DemandModel {
	return &DemandModel{params: params, rng: rng}
}

// ExpectedOrders returns the order count for the given date. For the cutoff
// day the full-day expectation is scaled by elapsedFraction: a zero fraction
// contributes nothing, any positive fraction contributes at least one order.
func (dm *DemandModel) ExpectedOrders(date time.Time, isCutoffDay bool, elapsedFraction float64) int {
	base := dm.params.AverageDailyOrders * dm.params.WeekdayMultipliers[mondayIndex(date.Weekday())]
	jitter := dm.params.JitterLow + dm.rng.Float64()*(dm.params.JitterHigh-dm.params.JitterLow)
	expected := base * jitter

	if isCutoffDay {
		if elapsedFraction <= 0 {
			return 0
		}
		n := int(expected * elapsedFraction)
		if n < 1 {
			n = 1
		}
		return n
	}
	return int(expected)
}

// mondayIndex converts Go's Sunday-first weekday to the Monday-first index
// used by the multiplier table.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
