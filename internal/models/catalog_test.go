package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogSnapshotValidate(t *testing.T) {
	empty := &CatalogSnapshot{}
	assert.ErrorContains(t, empty.Validate(), "no brands")

	withEmptyBrand := &CatalogSnapshot{Brands: []Brand{
		{ID: "b1", Name: "Golden Grill", Items: []Item{{ID: "i1", Name: "Buffalo Wings", Price: 10.99}}},
		{ID: "b2", Name: "Quiet Corner"},
	}}
	err := withEmptyBrand.Validate()
	assert.ErrorContains(t, err, "Quiet Corner")
	assert.ErrorContains(t, err, "no orderable items")

	healthy := &CatalogSnapshot{Brands: []Brand{
		{ID: "b1", Name: "Golden Grill", Items: []Item{
			{ID: "i1", Name: "Buffalo Wings", Price: 10.99},
			{ID: "i2", Name: "Side Salad", Price: 4.49},
		}},
	}}
	assert.NoError(t, healthy.Validate())
	assert.Equal(t, 2, healthy.ItemCount())
}
