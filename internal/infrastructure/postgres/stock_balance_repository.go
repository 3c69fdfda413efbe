package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo proyección de saldos sobre PostgreSQL (usable con pool o
// tx). lot_id es TEXT NOT NULL DEFAULT '': el vacío participa en la clave
// primaria compuesta, cosa que un NULL no permite con ON CONFLICT.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get obtiene el saldo de la clave exacta; sin fila devuelve saldo en cero.
func (r *StockBalanceRepo) Get(companyID, locationID, itemID, lotID string) (*entity.StockBalance, error) {
	query := `
		SELECT company_id, location_id, item_id, lot_id, quantity, updated_at
		FROM stock_balances
		WHERE company_id = $1 AND location_id = $2 AND item_id = $3 AND lot_id = $4`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, companyID, locationID, itemID, lotID).Scan(
		&b.CompanyID, &b.LocationID, &b.ItemID, &b.LotID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{
				CompanyID: companyID, LocationID: locationID, ItemID: itemID, LotID: lotID,
				Quantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza la cantidad del saldo (clave compuesta completa).
func (r *StockBalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (company_id, location_id, item_id, lot_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (company_id, location_id, item_id, lot_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.CompanyID, balance.LocationID, balance.ItemID, balance.LotID, balance.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// Delete elimina la fila del saldo (cantidad llegó a cero).
func (r *StockBalanceRepo) Delete(companyID, locationID, itemID, lotID string) error {
	query := `
		DELETE FROM stock_balances
		WHERE company_id = $1 AND location_id = $2 AND item_id = $3 AND lot_id = $4`
	_, err := r.q.Exec(context.Background(), query, companyID, locationID, itemID, lotID)
	if err != nil {
		return fmt.Errorf("delete stock balance: %w", err)
	}
	return nil
}

// ListForAllocation saldos con lote de un item en una ubicación (insumo FIFO).
func (r *StockBalanceRepo) ListForAllocation(companyID, locationID, itemID string) ([]entity.StockBalance, error) {
	query := `
		SELECT company_id, location_id, item_id, lot_id, quantity, updated_at
		FROM stock_balances
		WHERE company_id = $1 AND location_id = $2 AND item_id = $3 AND lot_id <> ''
		ORDER BY lot_id`
	return r.queryBalances(query, companyID, locationID, itemID)
}

// ListByCompany proyección completa de la empresa; locationID vacío = todas.
func (r *StockBalanceRepo) ListByCompany(companyID, locationID string) ([]entity.StockBalance, error) {
	query := `
		SELECT company_id, location_id, item_id, lot_id, quantity, updated_at
		FROM stock_balances WHERE company_id = $1`
	args := []any{companyID}
	if locationID != "" {
		query += " AND location_id = $2"
		args = append(args, locationID)
	}
	query += " ORDER BY location_id, item_id, lot_id"
	return r.queryBalances(query, args...)
}

func (r *StockBalanceRepo) queryBalances(query string, args ...any) ([]entity.StockBalance, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()

	var list []entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.CompanyID, &b.LocationID, &b.ItemID, &b.LotID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock balances: %w", err)
	}
	return list, nil
}
