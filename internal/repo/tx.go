package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stores bundles every repo the assignment transaction touches, all bound to
// the same underlying connection or transaction.
type Stores struct {
	Services ServiceRepo
	Hotels   HotelRepo
	Couriers CourierRepo
	Routes   RouteRepo
}

// NewStores binds a full set of repos to the given pool for non-transactional
// reads (eligibility queries, lookups, route listings).
func NewStores(pool *pgxpool.Pool) Stores {
	return newStores(pool)
}

func newStores(d db) Stores {
	return Stores{
		Services: NewServiceRepo(d),
		Hotels:   NewHotelRepo(d),
		Couriers: NewCourierRepo(d),
		Routes:   NewRouteRepo(d),
	}
}

// TxManager runs a function against transaction-scoped stores. It is the
// atomicity boundary of the assignment transaction: either everything the
// callback wrote commits, or nothing does.
type TxManager interface {
	// WithinTx begins a transaction, hands the callback a Stores bound to it,
	// and commits when the callback returns nil. Any error (including a
	// conflict raised by a conditional claim) rolls the whole transaction
	// back and is returned unwrapped for errors.Is checks.
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}

type pgTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager constructs a TxManager on top of a pgx pool.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgTxManager{pool: pool}
}

func (m *pgTxManager) WithinTx(ctx context.Context, fn func(s Stores) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxManager.WithinTx: begin: %w", err)
	}
	// Rollback after Commit is a no-op; this only matters on the error paths.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newStores(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxManager.WithinTx: commit: %w", err)
	}
	return nil
}
