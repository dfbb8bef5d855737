package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

const (
	maxItemsPerOrder = 3
	addressPoolSize  = 32
)

// OrderSynthesizer turns an arrival instant into a concrete order event. It
// never blocks and performs no I/O; everything it needs comes from the
// catalog snapshot and the injected random source.
type OrderSynthesizer struct {
	brands    []models.Brand // only brands with at least one item
	rng       *rand.Rand
	addresses []string
}

func NewOrderSynthesizer(catalog *models.CatalogSnapshot, rng *rand.Rand) *OrderSynthesizer {
	brands := make([]models.Brand, 0, len(catalog.Brands))
	for _, b := range catalog.Brands {
		if len(b.Items) > 0 {
			brands = append(brands, b)
		}
	}

	// small pool of delivery addresses generated once per run
	fake := faker.NewWithSeed(rand.NewSource(rng.Int63()))
	addresses := make([]string, addressPoolSize)
	for i := range addresses {
		addresses[i] = fake.Address().Address()
	}

	return &OrderSynthesizer{brands: brands, rng: rng, addresses: addresses}
}

// Synthesize draws a brand uniformly, 1-3 distinct items from its menu, and
// prices the order. The timestamp is taken as given; arrival timing belongs
// to the calling scheduler.
func (o *OrderSynthesizer) Synthesize(ts time.Time) models.OrderEvent {
	brand := o.brands[o.rng.Intn(len(o.brands))]

	k := 1 + o.rng.Intn(maxItemsPerOrder)
	if k > len(brand.Items) {
		k = len(brand.Items)
	}

	items := make([]models.OrderItem, 0, k)
	var total float64
	for _, idx := range o.rng.Perm(len(brand.Items))[:k] {
		item := brand.Items[idx]
		items = append(items, models.OrderItem{ID: item.ID, Name: item.Name, Price: item.Price})
		total += item.Price
	}

	return models.OrderEvent{
		OrderID:   cuid.New(),
		Timestamp: ts,
		Customer:  models.CustomerNamePool[o.rng.Intn(len(models.CustomerNamePool))],
		Address:   o.addresses[o.rng.Intn(len(o.addresses))],
		Brand:     brand.Name,
		Items:     items,
		Total:     roundPrice(total),
	}
}

// roundPrice rounds half away from zero to two decimal places.
func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
