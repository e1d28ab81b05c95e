package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"orderkit/pkg/customer"
	"orderkit/pkg/order"
)

const schema = `CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	customer_address TEXT NOT NULL,
	tier TEXT NOT NULL,
	product_ids TEXT[] NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// uniqueViolation is the Postgres error code for a duplicate key.
const uniqueViolation = "23505"

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders table if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}
	return nil
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	s := o.Snapshot()
	if s.ID == "" {
		return order.ErrMissingID
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO orders (id,customer_id,customer_address,tier,product_ids) VALUES ($1,$2,$3,$4,$5)",
		s.ID, s.CustomerID, s.CustomerAddress, string(s.Tier), pq.Array(s.ProductIDs))
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return order.ErrDuplicate
	}
	return err
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id,customer_id,customer_address,tier,product_ids FROM orders WHERE id=$1", id)
	o, err := scan(row)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

// List fetches all orders in creation order.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,customer_id,customer_address,tier,product_ids FROM orders ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []order.Order{}
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (order.Order, error) {
	var (
		s    order.Snapshot
		tier string
	)
	if err := sc.Scan(&s.ID, &s.CustomerID, &s.CustomerAddress, &tier, pq.Array(&s.ProductIDs)); err != nil {
		return order.Order{}, err
	}
	s.Tier = customer.Tier(tier)
	return order.FromSnapshot(s)
}
