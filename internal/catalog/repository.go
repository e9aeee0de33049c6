package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a stock adjustment would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	List(ctx context.Context, search string, category Category) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock changes stock by delta (negative for a decrement) in a single
	// conditional update that refuses to take stock below zero.
	AdjustStock(ctx context.Context, id string, delta int) error
	AddImage(ctx context.Context, productID, url string) (*Image, error)
	RemoveImage(ctx context.Context, imageID string) error
	ListLowStock(ctx context.Context, threshold int) ([]Product, error)
	Count(ctx context.Context) (int, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, category, description, price, stock, created_at, updated_at`

func (r *PostgresRepository) List(ctx context.Context, search string, category Category) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	where := ""

	if category != "" {
		args = append(args, string(category))
		where = fmt.Sprintf(" WHERE category = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		clause := fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	query += where + ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachImages(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}

	products := []Product{p}
	if err := r.attachImages(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, category, description, price, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, string(p.Category), p.Description, p.Price, p.Stock)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	for i := range p.Images {
		img := &p.Images[i]
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		img.Position = i
		_, err := r.pool.Exec(ctx,
			`INSERT INTO product_images (id, product_id, url, position) VALUES ($1, $2, $3, $4)`,
			img.ID, p.ID, img.URL, img.Position,
		)
		if err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, category = $3, description = $4, price = $5, stock = $6, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, string(p.Category), p.Description, p.Price, p.Stock)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	// product_images rows go away via ON DELETE CASCADE
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
	`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the product does not exist or the adjustment would go negative.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check product exists: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *PostgresRepository) AddImage(ctx context.Context, productID, url string) (*Image, error) {
	img := Image{ID: uuid.NewString(), URL: url}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO product_images (id, product_id, url, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), -1) + 1 FROM product_images WHERE product_id = $2))
		RETURNING position
	`, img.ID, productID, url)
	if err := row.Scan(&img.Position); err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}
	return &img, nil
}

func (r *PostgresRepository) RemoveImage(ctx context.Context, imageID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_images WHERE id = $1`, imageID)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListLowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock <= $1 ORDER BY stock`, threshold)
	if err != nil {
		return nil, fmt.Errorf("select low stock products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) attachImages(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	index := make(map[string]*Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = &products[i]
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, url, position
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY position
	`, ids)
	if err != nil {
		return fmt.Errorf("select product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			img       Image
			productID string
		)
		if err := rows.Scan(&img.ID, &productID, &img.URL, &img.Position); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		if p, ok := index[productID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}
