package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mallgrid/order/internal/dal/postgres"
	"github.com/mallgrid/order/internal/service/errs"
	"github.com/mallgrid/order/internal/service/models/currency"
	"github.com/mallgrid/order/internal/service/models/product"
)

// PostgresInventoryRepository is the Postgres-backed inventory ledger. It is
// the only code path that writes the products.inventory column.
type PostgresInventoryRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresInventoryRepository creates a new Postgres inventory repository.
func NewPostgresInventoryRepository(conn postgres.GenericConn) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Reserve decrements the product's available quantity by the requested
// amount. The check and the decrement are one conditional UPDATE, so two
// concurrent reservations can never drive the quantity negative: the row
// is only touched when inventory >= quantity, verified via the affected-row
// count. When the UPDATE matches no row, a follow-up read distinguishes an
// unknown product from insufficient stock.
func (r *PostgresInventoryRepository) Reserve(
	ctx context.Context,
	productID int64,
	quantity int,
) error {
	if quantity <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}

	query, args, err := r.sb.
		Update("products").
		Set("inventory", sq.Expr("inventory - ?", quantity)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": productID}).
		Where(sq.GtOrEq{"inventory": quantity}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reserve query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	available, err := r.GetQuantity(ctx, productID)
	if err != nil {
		return err
	}

	return &errs.InsufficientStockError{
		ProductID: productID,
		Requested: quantity,
		Available: available,
	}
}

// Restock increments the product's available quantity. Used by product
// management; order cancellation deliberately does not call it.
func (r *PostgresInventoryRepository) Restock(
	ctx context.Context,
	productID int64,
	quantity int,
) error {
	if quantity <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}

	query, args, err := r.sb.
		Update("products").
		Set("inventory", sq.Expr("inventory + ?", quantity)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build restock query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to restock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrProductNotFound
	}

	return nil
}

// GetQuantity reads the product's current available quantity.
func (r *PostgresInventoryRepository) GetQuantity(
	ctx context.Context,
	productID int64,
) (int, error) {
	query, args, err := r.sb.
		Select("inventory").
		From("products").
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build quantity query: %w", err)
	}

	var quantity int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errs.ErrProductNotFound
		}

		return 0, fmt.Errorf("failed to read inventory: %w", err)
	}

	return quantity, nil
}

// Get reads one product record.
func (r *PostgresInventoryRepository) Get(
	ctx context.Context,
	productID int64,
) (product.Product, error) {
	query, args, err := r.sb.
		Select(
			"id",
			"store_id",
			"title",
			"inventory",
			"price_cents",
			"price_currency",
			"created_at",
			"updated_at",
		).
		From("products").
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build product query: %w", err)
	}

	var p product.Product
	var cur string
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.StoreID,
		&p.Title,
		&p.Inventory,
		&p.PriceCents,
		&cur,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, errs.ErrProductNotFound
		}

		return product.Product{}, fmt.Errorf("failed to read product: %w", err)
	}

	p.PriceCurrency, err = currency.ParseCurrency(cur)
	if err != nil {
		return product.Product{}, err
	}

	return p, nil
}
