package factories

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

var brandPrefixes = []string{
	"Tasty", "Delicious", "Gourmet", "Fresh", "Royal", "Golden", "Silver",
	"Green", "Blue", "Red", "Urban", "City", "Classic", "Modern", "Fusion",
}

var brandSuffixes = []string{
	"Kitchen", "Bistro", "Cafe", "Grill", "House", "Garden", "Table",
	"Plate", "Spoon", "Fork", "Diner", "Eatery", "Bites", "Flavors",
}

var brandCuisines = []string{
	"Italian", "Thai", "Mexican", "Chinese", "American", "BBQ", "Sushi",
	"Pizza", "Burger", "Salad", "Steak", "Seafood", "Vegan",
}

var brandFoods = []string{
	"Pasta", "Noodle", "Taco", "Burger", "Pizza", "Sandwich", "Curry",
	"Rice", "Dumpling", "Pancake", "Waffle",
}

type poolItem struct {
	name  string
	price float64
}

// menuItemPool holds the base dishes a generated brand draws from; each
// brand gets its own price variation on top.
var menuItemPool = []poolItem{
	{"Mozzarella Sticks", 7.99},
	{"Loaded Nachos", 9.99},
	{"Buffalo Wings", 10.99},
	{"Garlic Bread", 5.99},
	{"Spring Rolls", 6.99},
	{"Bruschetta", 7.49},
	{"Classic Cheeseburger", 12.99},
	{"Grilled Salmon", 18.99},
	{"Chicken Alfredo", 15.99},
	{"Margherita Pizza", 14.99},
	{"Beef Stir Fry", 16.99},
	{"Vegetable Curry", 13.99},
	{"Fish & Chips", 14.49},
	{"French Fries", 3.99},
	{"Onion Rings", 4.99},
	{"Side Salad", 4.49},
	{"Chocolate Cake", 6.99},
	{"New York Cheesecake", 7.99},
	{"Tiramisu", 7.49},
	{"Fresh Lemonade", 3.99},
	{"Iced Tea", 2.99},
	{"Milkshake", 5.99},
	{"Chef's Special Pasta", 17.99},
	{"Surf & Turf", 28.99},
}

// CatalogFactory builds an in-memory catalog snapshot when no catalog
// database is configured. It satisfies the catalog read interface, so the
// engine does not know whether its brands came from Postgres or a generator.
type CatalogFactory struct {
	brandCount int
	rng        *rand.Rand
	fake       faker.Faker
}

func NewCatalogFactory(brandCount int, seed int64) *CatalogFactory {
	return &CatalogFactory{
		brandCount: brandCount,
		rng:        rand.New(rand.NewSource(seed)),
		fake:       faker.NewWithSeed(rand.NewSource(seed)),
	}
}

func (cf *CatalogFactory) GetBrandsWithItems(_ context.Context) (*models.CatalogSnapshot, error) {
	snapshot := &models.CatalogSnapshot{Brands: make([]models.Brand, cf.brandCount)}
	for i := range snapshot.Brands {
		snapshot.Brands[i] = cf.createBrand()
	}
	return snapshot, nil
}

func (cf *CatalogFactory) createBrand() models.Brand {
	itemCount := 4 + cf.rng.Intn(7) // 4 to 10 items per brand
	if itemCount > len(menuItemPool) {
		itemCount = len(menuItemPool)
	}

	items := make([]models.Item, 0, itemCount)
	for _, idx := range cf.rng.Perm(len(menuItemPool))[:itemCount] {
		base := menuItemPool[idx]
		// slight price variation for realism, matching seeded catalogs
		variation := 0.9 + cf.rng.Float64()*0.2
		items = append(items, models.Item{
			ID:    cuid.New(),
			Name:  base.name,
			Price: math.Round(base.price*variation*100) / 100,
		})
	}

	return models.Brand{
		ID:    cuid.New(),
		Name:  cf.generateBrandName(),
		Items: items,
	}
}

func (cf *CatalogFactory) generateBrandName() string {
	pick := func(values []string) string { return values[cf.rng.Intn(len(values))] }

	switch cf.rng.Intn(5) {
	case 0:
		return fmt.Sprintf("%s %s", pick(brandPrefixes), pick(brandSuffixes))
	case 1:
		return fmt.Sprintf("The %s %s", pick(brandFoods), pick(brandSuffixes))
	case 2:
		return fmt.Sprintf("%s's %s", cf.fake.Person().FirstName(), pick(brandSuffixes))
	case 3:
		return fmt.Sprintf("%s %s", pick(brandCuisines), pick(brandSuffixes))
	default:
		return fmt.Sprintf("%s %s", pick([]string{"Spicy", "Sweet", "Savory", "Crispy", "Hot", "Wild", "Hungry", "Happy"}), pick(brandFoods))
	}
}
