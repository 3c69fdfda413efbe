package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo catálogo de lotes sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `
		SELECT id, company_id, item_id, lot_code, qr_code, expires_at, created_at
		FROM lots WHERE id = $1`
	var l entity.Lot
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.CompanyID, &l.ItemID, &l.LotCode, &l.QRCode, &l.ExpiresAt, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// ListByItem lotes del item ordenados por código.
func (r *LotRepo) ListByItem(itemID string) ([]entity.Lot, error) {
	query := `
		SELECT id, company_id, item_id, lot_code, qr_code, expires_at, created_at
		FROM lots WHERE item_id = $1 ORDER BY lot_code`
	return r.queryLots(query, itemID)
}

// ListExpiring lotes de la empresa que vencen en o antes de la fecha límite.
func (r *LotRepo) ListExpiring(companyID string, before time.Time) ([]entity.Lot, error) {
	query := `
		SELECT id, company_id, item_id, lot_code, qr_code, expires_at, created_at
		FROM lots WHERE company_id = $1 AND expires_at::date <= $2::date
		ORDER BY expires_at, lot_code`
	return r.queryLots(query, companyID, before)
}

func (r *LotRepo) queryLots(query string, args ...any) ([]entity.Lot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var list []entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.ItemID, &l.LotCode, &l.QRCode, &l.ExpiresAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lots: %w", err)
	}
	return list, nil
}
