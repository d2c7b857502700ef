package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mallgrid/order/internal/dal/interfaces/iinventoryrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/iorderrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/mallgrid/order/internal/dal/interfaces/istatuslogrepo"
	"github.com/mallgrid/order/internal/dal/postgres"
	inventoryrepo "github.com/mallgrid/order/internal/dal/repositories/inventory/postgres"
	orderrepo "github.com/mallgrid/order/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/mallgrid/order/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/mallgrid/order/internal/dal/repositories/outbox/postgres"
	statuslogrepo "github.com/mallgrid/order/internal/dal/repositories/statuslog/postgres"
)

// unitOfWork scopes all repositories to one pgx connection. Before Begin the
// repositories run against the pool; after Begin they are rebuilt on the
// transaction, so every statement up to Commit shares its isolation scope.
type unitOfWork struct {
	client        *postgres.Client
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	inventoryRepo iinventoryrepo.IInventoryRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
	statusLogRepo istatuslogrepo.IStatusLogRepository
}

// NewUnitOfWork creates a unit of work bound to the Postgres client's pool.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{client: client}
	u.buildRepositories(client.Pool())

	return u
}

func (u *unitOfWork) buildRepositories(conn postgres.GenericConn) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.inventoryRepo = inventoryrepo.NewPostgresInventoryRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
	u.statusLogRepo = statuslogrepo.NewPostgresStatusLogRepository(conn)
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) InventoryRepository() iinventoryrepo.IInventoryRepository {
	return u.inventoryRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) StatusLogRepository() istatuslogrepo.IStatusLogRepository {
	return u.statusLogRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.buildRepositories(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}
