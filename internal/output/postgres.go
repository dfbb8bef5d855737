package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createOrderEventsTable = `
    CREATE TABLE IF NOT EXISTS order_events (
        order_id   TEXT PRIMARY KEY,
        ts         TIMESTAMPTZ NOT NULL,
        customer   TEXT NOT NULL,
        address    TEXT NOT NULL,
        brand      TEXT NOT NULL,
        items      JSONB NOT NULL,
        total      NUMERIC(10, 2) NOT NULL
    )
`

// PostgresOutput persists order events in an order_events table, one row per
// published event.
type PostgresOutput struct {
	pool *pgxpool.Pool
}

func NewPostgresOutput(ctx context.Context, config *models.DatabaseConfig) (*PostgresOutput, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, createOrderEventsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error creating order_events table: %w", err)
	}

	return &PostgresOutput{pool: pool}, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var event models.OrderEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	items, err := json.Marshal(event.Items)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO order_events (order_id, ts, customer, address, brand, items, total)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err = p.pool.Exec(context.Background(), query,
		event.OrderID,
		event.Timestamp,
		event.Customer,
		event.Address,
		event.Brand,
		items,
		event.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into order_events: %w", err)
	}

	return nil
}

func (p *PostgresOutput) Close() error {
	p.pool.Close()
	return nil
}
