package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("order not found")

// StockConflict describes one cart line that can no longer be satisfied.
type StockConflict struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockConflictError aborts order creation when live stock is short. The whole
// transaction rolls back, so a conflict never leaves a partial order behind.
type StockConflictError struct {
	Conflicts []StockConflict
}

func (e *StockConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = fmt.Sprintf("%s (requested %d, available %d)", c.ProductID, c.Requested, c.Available)
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	// Create inserts the order header, its lines and the matching stock
	// decrements in one transaction. It returns a *StockConflictError and
	// mutates nothing when any line exceeds the live stock.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListUnviewed(ctx context.Context) ([]Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
	// ListSince returns orders created on or after the given instant, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]Order, error)
	MarkViewed(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `id, customer_id, total, status, viewed, created_at`

func (r *PostgresRepository) Create(ctx context.Context, o *Order) (err error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.Status = StatusInProgress
	o.Viewed = false

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock every referenced product row first so concurrent checkouts cannot
	// both pass the availability check with the same units.
	var conflicts []StockConflict
	for _, line := range o.Lines {
		var available int
		scanErr := tx.QueryRow(ctx,
			`SELECT stock FROM products WHERE id = $1 FOR UPDATE`, line.ProductID,
		).Scan(&available)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				available = 0
			} else {
				return fmt.Errorf("lock product %s: %w", line.ProductID, scanErr)
			}
		}
		if available < line.Quantity {
			conflicts = append(conflicts, StockConflict{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}
	if len(conflicts) > 0 {
		return &StockConflictError{Conflicts: conflicts}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, customer_id, total, status, viewed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, o.ID, o.CustomerID, o.Total, string(o.Status), o.Viewed, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		line.OrderID = o.ID

		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, product_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, line.ID, line.OrderID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1
		`, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err := row.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.Viewed, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	orders := []Order{o}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *PostgresRepository) ListUnviewed(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE viewed = FALSE ORDER BY created_at DESC`)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`,
		string(status))
}

func (r *PostgresRepository) ListSince(ctx context.Context, since time.Time) ([]Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE created_at >= $1 ORDER BY created_at`,
		since)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.Viewed, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) attachLines(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]*Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_lines
		WHERE order_id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("select order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if o, ok := index[line.OrderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) MarkViewed(ctx context.Context, id string) error {
	// viewed only ever flips false to true
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET viewed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark viewed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
