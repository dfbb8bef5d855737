package models

const (
	TopicOrderEvents = "order_events"

	SecondsPerDay = 86_400

	CatalogSourceGenerated = "generated"
	CatalogSourcePostgres  = "postgres"
)

// DefaultWeekdayMultipliers shape weekly demand, Monday first. Friday and
// Saturday carry the evening spike.
var DefaultWeekdayMultipliers = []float64{0.8, 0.9, 1.0, 1.1, 1.2, 1.5, 1.3}

// CustomerNamePool is flavor data only; order correctness never depends on
// which name is drawn.
var CustomerNamePool = []string{
	"Alice", "Bob", "Charlie", "Dana", "Elena", "Femi", "Grace", "Hiro",
}
