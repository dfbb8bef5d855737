package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPool(ctx context.Context, config models.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to catalog database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging catalog database: %w", err)
	}
	return pool, nil
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetBrandsWithItems walks brand -> menu -> category -> item in one query.
// Brands without any reachable item still appear in the snapshot with an
// empty item list, so snapshot validation can name them before the run
// starts producing events.
func (r *CatalogRepository) GetBrandsWithItems(ctx context.Context) (*models.CatalogSnapshot, error) {
	query := `
        SELECT
            b.id,
            b.name,
            i.id,
            i.name,
            i.price
        FROM brand b
        LEFT JOIN menu m ON m.brand_id = b.id
        LEFT JOIN category c ON c.menu_id = m.id
        LEFT JOIN item i ON i.category_id = c.id
        ORDER BY b.id, i.id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying catalog: %w", err)
	}
	defer rows.Close()

	snapshot := &models.CatalogSnapshot{}
	index := make(map[int64]int) // brand id -> position in snapshot.Brands
	for rows.Next() {
		var (
			brandID   int64
			brandName string
			itemID    *int64
			itemName  *string
			itemPrice *float64
		)
		if err := rows.Scan(&brandID, &brandName, &itemID, &itemName, &itemPrice); err != nil {
			return nil, err
		}

		pos, ok := index[brandID]
		if !ok {
			pos = len(snapshot.Brands)
			index[brandID] = pos
			snapshot.Brands = append(snapshot.Brands, models.Brand{
				ID:   strconv.FormatInt(brandID, 10),
				Name: brandName,
			})
		}
		if itemID != nil {
			snapshot.Brands[pos].Items = append(snapshot.Brands[pos].Items, models.Item{
				ID:    strconv.FormatInt(*itemID, 10),
				Name:  *itemName,
				Price: *itemPrice,
			})
		}
	}

	return snapshot, rows.Err()
}
