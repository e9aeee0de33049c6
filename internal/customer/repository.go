package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("customer not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	List(ctx context.Context) ([]Customer, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const customerColumns = `id, first_name, last_name, email, phone, address, created_at`

func (r *PostgresRepository) Create(ctx context.Context, c *Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (id, first_name, last_name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Customer, error) {
	return r.getBy(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	return r.getBy(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
}

func (r *PostgresRepository) getBy(ctx context.Context, query string, arg any) (*Customer, error) {
	var c Customer
	row := r.pool.QueryRow(ctx, query, arg)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers
		SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6
		WHERE id = $1
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return customers, nil
}
