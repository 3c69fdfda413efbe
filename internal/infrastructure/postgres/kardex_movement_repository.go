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

var _ repository.KardexMovementRepository = (*KardexMovementRepo)(nil)

// KardexMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Cabecera en kardex_movements, líneas en
// kardex_movement_lines; lot_id vacío se persiste como '' para que la clave
// compuesta funcione en ON CONFLICT y en los joins.
type KardexMovementRepo struct {
	q Querier
}

// NewKardexMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKardexMovementRepository(q Querier) *KardexMovementRepo {
	return &KardexMovementRepo{q: q}
}

// Create persiste la cabecera y las líneas del asiento.
func (r *KardexMovementRepo) Create(movement *entity.KardexMovement) error {
	query := `
		INSERT INTO kardex_movements
			(id, company_id, movement_type, status, reason, notes, requested_by, requested_by_role,
			 approved_by, approved_by_role, work_order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	workOrderID := (*string)(nil)
	if movement.WorkOrderID != "" {
		workOrderID = &movement.WorkOrderID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.MovementType, movement.Status,
		movement.Reason, movement.Notes, movement.RequestedBy, movement.RequestedByRole,
		movement.ApprovedBy, movement.ApprovedByRole, workOrderID, movement.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create kardex movement: %w", err)
	}

	lineQuery := `
		INSERT INTO kardex_movement_lines (movement_id, line_no, location_id, item_id, lot_id, delta_qty)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, line := range movement.Lines {
		_, err := r.q.Exec(context.Background(), lineQuery,
			movement.ID, i+1, line.LocationID, line.ItemID, line.LotID, line.DeltaQty,
		)
		if err != nil {
			return fmt.Errorf("create kardex movement line %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID obtiene un movimiento con sus líneas.
func (r *KardexMovementRepo) GetByID(id string) (*entity.KardexMovement, error) {
	query := `
		SELECT id, company_id, movement_type, status, reason, notes, requested_by, requested_by_role,
		       approved_by, approved_by_role, work_order_id, created_at
		FROM kardex_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kardex movement: %w", err)
	}
	lines, err := r.loadLines([]string{m.ID})
	if err != nil {
		return nil, err
	}
	m.Lines = lines[m.ID]
	return m, nil
}

// UpdateDecision fija el estado terminal y el aprobador. La condición
// status = 'PENDING' en el WHERE es la que garantiza idempotencia frente a
// dobles decisiones: la segunda no afecta filas.
func (r *KardexMovementRepo) UpdateDecision(id, status, approvedBy, approvedByRole string) error {
	query := `
		UPDATE kardex_movements
		SET status = $2, approved_by = $3, approved_by_role = $4
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.q.Exec(context.Background(), query, id, status, approvedBy, approvedByRole)
	if err != nil {
		return fmt.Errorf("update decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.q.QueryRow(context.Background(),
			`SELECT EXISTS(SELECT 1 FROM kardex_movements WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check movement exists: %w", err)
		}
		if !exists {
			return domain.ErrMovementNotFound
		}
		return domain.ErrNotPending
	}
	return nil
}

// ListByCompany lista movimientos de la empresa aplicando los filtros dados.
// Los filtros de ubicación/item miran las líneas (EXISTS sobre la tabla hija).
func (r *KardexMovementRepo) ListByCompany(companyID string, f repository.MovementFilter) ([]entity.KardexMovement, error) {
	query := `
		SELECT id, company_id, movement_type, status, reason, notes, requested_by, requested_by_role,
		       approved_by, approved_by_role, work_order_id, created_at
		FROM kardex_movements m WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.LocationID != "" || f.ItemID != "" {
		query += " AND EXISTS (SELECT 1 FROM kardex_movement_lines l WHERE l.movement_id = m.id"
		if f.LocationID != "" {
			query += fmt.Sprintf(" AND l.location_id = $%d", pos)
			args = append(args, f.LocationID)
			pos++
		}
		if f.ItemID != "" {
			query += fmt.Sprintf(" AND l.item_id = $%d", pos)
			args = append(args, f.ItemID)
			pos++
		}
		query += ")"
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	return r.queryMovements(query, args...)
}

// ListPendingApprovals movimientos ADJUST/SCRAP en espera de decisión,
// los más antiguos primero.
func (r *KardexMovementRepo) ListPendingApprovals(companyID string) ([]entity.KardexMovement, error) {
	query := `
		SELECT id, company_id, movement_type, status, reason, notes, requested_by, requested_by_role,
		       approved_by, approved_by_role, work_order_id, created_at
		FROM kardex_movements
		WHERE company_id = $1 AND status = 'PENDING' AND movement_type IN ('ADJUST', 'SCRAP')
		ORDER BY created_at ASC`
	return r.queryMovements(query, companyID)
}

func (r *KardexMovementRepo) queryMovements(query string, args ...any) ([]entity.KardexMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list kardex movements: %w", err)
	}
	defer rows.Close()

	var list []entity.KardexMovement
	var ids []string
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kardex movement: %w", err)
		}
		list = append(list, *m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kardex movements: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	lines, err := r.loadLines(ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Lines = lines[list[i].ID]
	}
	return list, nil
}

// loadLines carga las líneas de un conjunto de movimientos en una sola consulta.
func (r *KardexMovementRepo) loadLines(movementIDs []string) (map[string][]entity.MovementLine, error) {
	query := `
		SELECT movement_id, location_id, item_id, lot_id, delta_qty
		FROM kardex_movement_lines
		WHERE movement_id = ANY($1)
		ORDER BY movement_id, line_no`
	rows, err := r.q.Query(context.Background(), query, movementIDs)
	if err != nil {
		return nil, fmt.Errorf("load movement lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[string][]entity.MovementLine, len(movementIDs))
	for rows.Next() {
		var movementID string
		var line entity.MovementLine
		if err := rows.Scan(&movementID, &line.LocationID, &line.ItemID, &line.LotID, &line.DeltaQty); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		lines[movementID] = append(lines[movementID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movement lines: %w", err)
	}
	return lines, nil
}

func scanMovement(row pgx.Row) (*entity.KardexMovement, error) {
	var m entity.KardexMovement
	var workOrderID *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.MovementType, &m.Status, &m.Reason, &m.Notes,
		&m.RequestedBy, &m.RequestedByRole, &m.ApprovedBy, &m.ApprovedByRole,
		&workOrderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if workOrderID != nil {
		m.WorkOrderID = *workOrderID
	}
	return &m, nil
}
