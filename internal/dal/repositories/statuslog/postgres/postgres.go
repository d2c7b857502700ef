package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mallgrid/order/internal/dal/postgres"
	"github.com/mallgrid/order/internal/service/models/order"
	"github.com/mallgrid/order/internal/service/models/statuslog"
)

// PostgresStatusLogRepository persists the audit trail of order status
// transitions.
type PostgresStatusLogRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresStatusLogRepository creates a new Postgres status log repository.
func NewPostgresStatusLogRepository(conn postgres.GenericConn) *PostgresStatusLogRepository {
	return &PostgresStatusLogRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert appends one status change record.
func (r *PostgresStatusLogRepository) Insert(
	ctx context.Context,
	change statuslog.StatusChange,
) error {
	query, args, err := r.sb.
		Insert("order_status_log").
		Columns("order_id", "from_status", "to_status", "created_at").
		Values(
			change.OrderID,
			change.FromStatus.String(),
			change.ToStatus.String(),
			change.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert status change: %w", err)
	}

	return nil
}

// QueryByOrderID returns the order's status changes, oldest first.
func (r *PostgresStatusLogRepository) QueryByOrderID(
	ctx context.Context,
	orderID int64,
) ([]statuslog.StatusChange, error) {
	query, args, err := r.sb.
		Select("id", "order_id", "from_status", "to_status", "created_at").
		From("order_status_log").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query status changes: %w", err)
	}
	defer rows.Close()

	var result []statuslog.StatusChange
	for rows.Next() {
		var change statuslog.StatusChange
		var from, to string
		if err := rows.Scan(&change.ID, &change.OrderID, &from, &to, &change.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}

		change.FromStatus, err = order.ParseStatus(from)
		if err != nil {
			return nil, err
		}
		change.ToStatus, err = order.ParseStatus(to)
		if err != nil {
			return nil, err
		}

		result = append(result, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
