package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo órdenes de trabajo sobre PostgreSQL (usable con pool o tx).
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste una orden de trabajo.
func (r *WorkOrderRepo) Create(workOrder *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (id, company_id, code, responsible, cost_center, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		workOrder.ID, workOrder.CompanyID, workOrder.Code, workOrder.Responsible,
		workOrder.CostCenter, workOrder.Status, workOrder.Notes, workOrder.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create work order: %w", err)
	}
	return nil
}

// GetByID obtiene una OT por ID; nil si no existe.
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	query := `
		SELECT id, company_id, code, responsible, cost_center, status, notes, created_at
		FROM work_orders WHERE id = $1`
	var w entity.WorkOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.CompanyID, &w.Code, &w.Responsible, &w.CostCenter, &w.Status, &w.Notes, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return &w, nil
}

// ListByCompany órdenes de la empresa ordenadas por código.
func (r *WorkOrderRepo) ListByCompany(companyID string) ([]entity.WorkOrder, error) {
	query := `
		SELECT id, company_id, code, responsible, cost_center, status, notes, created_at
		FROM work_orders WHERE company_id = $1 ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var list []entity.WorkOrder
	for rows.Next() {
		var w entity.WorkOrder
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.Code, &w.Responsible, &w.CostCenter, &w.Status, &w.Notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work orders: %w", err)
	}
	return list, nil
}

// CountByCodePrefix cuenta OTs cuyo código inicia con el prefijo dado.
func (r *WorkOrderRepo) CountByCodePrefix(companyID, prefix string) (int, error) {
	query := `SELECT count(*) FROM work_orders WHERE company_id = $1 AND code LIKE $2 || '%'`
	var count int
	if err := r.q.QueryRow(context.Background(), query, companyID, prefix).Scan(&count); err != nil {
		return 0, fmt.Errorf("count work orders: %w", err)
	}
	return count, nil
}
