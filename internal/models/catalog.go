package models

import "fmt"

type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Brand struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// CatalogSnapshot is the read-only view of brands and their orderable items
// used for a single engine run. It is loaded once at startup and never
// mutated afterwards, so schedulers may share it without locking. Refreshing
// it means restarting the engine.
type CatalogSnapshot struct {
	Brands []Brand
}

// Validate enforces the fatal configuration errors: a catalog with no brands,
// or any brand carrying zero items, cannot be simulated.
func (cs *CatalogSnapshot) Validate() error {
	if len(cs.Brands) == 0 {
		return fmt.Errorf("catalog snapshot contains no brands")
	}
	for _, b := range cs.Brands {
		if len(b.Items) == 0 {
			return fmt.Errorf("brand %q (id %s) has no orderable items", b.Name, b.ID)
		}
	}
	return nil
}

func (cs *CatalogSnapshot) ItemCount() int {
	var n int
	for _, b := range cs.Brands {
		n += len(b.Items)
	}
	return n
}
