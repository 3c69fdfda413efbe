package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Kardex-api/internal/application/kardex"
)

var _ kardex.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL,
// serializados por empresa mediante un advisory lock transaccional.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, toma el lock de la empresa, ejecuta fn con
// repos atados a la tx y hace Commit o Rollback. El lock se libera solo al
// terminar la transacción, así dos escrituras de la misma empresa nunca se
// entrelazan entre la validación de saldos y la aplicación del movimiento.
func (r *TxRunner) Run(ctx context.Context, companyID string, fn func(repos kardex.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID); err != nil {
		return fmt.Errorf("advisory lock empresa: %w", err)
	}

	repos := kardex.TxRepos{
		Movements:  NewKardexMovementRepository(tx),
		Stock:      NewStockBalanceRepository(tx),
		Items:      NewItemRepository(tx),
		Lots:       NewLotRepository(tx),
		WorkOrders: NewWorkOrderRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
