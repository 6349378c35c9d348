package stalld

import (
	"context"
	"database/sql"
	"fmt"

	"webstall/internal/model"
)

// Store wraps catalog and order queries over sqlite.
type Store struct {
	db *sql.DB
}

// NewStore returns a store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Products returns the catalog in sort order.
func (s *Store) Products(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, image, category, price
		FROM products
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		var price sql.NullInt64
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.Image, &it.Category, &price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if price.Valid {
			it.Price = &price.Int64
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Product returns one catalog item and whether it exists.
func (s *Store) Product(ctx context.Context, id string) (model.Item, bool, error) {
	var it model.Item
	var price sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, image, category, price
		FROM products WHERE id = ?`, id).
		Scan(&it.ID, &it.Title, &it.Description, &it.Image, &it.Category, &price)
	if err == sql.ErrNoRows {
		return model.Item{}, false, nil
	}
	if err != nil {
		return model.Item{}, false, fmt.Errorf("load product %s: %w", id, err)
	}
	if price.Valid {
		it.Price = &price.Int64
	}
	return it, true, nil
}

// InsertProduct upserts one catalog row. Used by the seeder.
func (s *Store) InsertProduct(ctx context.Context, it model.Item, sortOrder int) error {
	var price any
	if it.Price != nil {
		price = *it.Price
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, title, description, image, category, price, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			image = excluded.image,
			category = excluded.category,
			price = excluded.price,
			sort_order = excluded.sort_order`,
		it.ID, it.Title, it.Description, it.Image, string(it.Category), price, sortOrder)
	if err != nil {
		return fmt.Errorf("insert product %s: %w", it.ID, err)
	}
	return nil
}

// ProductCount returns how many catalog rows exist.
func (s *Store) ProductCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// InsertOrder records an accepted order and its item list in one
// transaction.
func (s *Store) InsertOrder(ctx context.Context, id string, order model.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	var total int64
	if order.Total != nil {
		total = *order.Total
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, payment, address, email, phone, total)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(order.Payment), order.Address, order.Email, order.Phone, total); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert order: %w", err)
	}
	for _, itemID := range order.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id) VALUES (?, ?)", id, itemID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert order item %s: %w", itemID, err)
		}
	}
	return tx.Commit()
}

// OrderCount returns how many orders have been recorded.
func (s *Store) OrderCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
