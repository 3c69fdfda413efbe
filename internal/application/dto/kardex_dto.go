package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domkardex "github.com/jhoicas/Kardex-api/internal/domain/kardex"
)

// SubmitMovementRequest body para POST /api/kardex/movements.
// qr con formato ITEM:<company_id>:<item_id> o LOT:<company_id>:<lot_id>.
type SubmitMovementRequest struct {
	MovementType    string          `json:"movement_type"`
	QR              string          `json:"qr"`
	Quantity        decimal.Decimal `json:"quantity"`
	LocationFromID  string          `json:"location_from_id"`
	LocationToID    string          `json:"location_to_id,omitempty"`
	LotID           string          `json:"lot_id,omitempty"`
	AutoFIFO        bool            `json:"auto_fifo,omitempty"`
	AllowExpired    bool            `json:"allow_expired,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	WorkOrderID     string          `json:"work_order_id,omitempty"`
	AdjustDirection string          `json:"adjust_direction,omitempty"`
}

// DecisionRequest body para POST /api/kardex/movements/:id/decision.
type DecisionRequest struct {
	Approved bool `json:"approved"`
}

// CycleCountRequest body para POST /api/kardex/cycle-counts.
type CycleCountRequest struct {
	LocationID string          `json:"location_id"`
	ItemID     string          `json:"item_id"`
	LotID      string          `json:"lot_id,omitempty"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	Notes      string          `json:"notes,omitempty"`
}

// MovementLineDTO línea de un movimiento.
type MovementLineDTO struct {
	LocationID string          `json:"location_id"`
	ItemID     string          `json:"item_id"`
	LotID      string          `json:"lot_id,omitempty"`
	DeltaQty   decimal.Decimal `json:"delta_qty"`
}

// MovementResponse asiento del kardex.
type MovementResponse struct {
	ID              string            `json:"id"`
	CompanyID       string            `json:"company_id"`
	MovementType    string            `json:"movement_type"`
	Status          string            `json:"status"`
	Reason          string            `json:"reason,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	RequestedBy     string            `json:"requested_by"`
	RequestedByRole string            `json:"requested_by_role"`
	ApprovedBy      string            `json:"approved_by,omitempty"`
	ApprovedByRole  string            `json:"approved_by_role,omitempty"`
	WorkOrderID     string            `json:"work_order_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	Lines           []MovementLineDTO `json:"lines"`
}

// NewMovementResponse mapea la entidad al DTO de respuesta.
func NewMovementResponse(m *entity.KardexMovement) MovementResponse {
	lines := make([]MovementLineDTO, 0, len(m.Lines))
	for _, line := range m.Lines {
		lines = append(lines, MovementLineDTO{
			LocationID: line.LocationID,
			ItemID:     line.ItemID,
			LotID:      line.LotID,
			DeltaQty:   line.DeltaQty,
		})
	}
	return MovementResponse{
		ID:              m.ID,
		CompanyID:       m.CompanyID,
		MovementType:    m.MovementType,
		Status:          m.Status,
		Reason:          m.Reason,
		Notes:           m.Notes,
		RequestedBy:     m.RequestedBy,
		RequestedByRole: m.RequestedByRole,
		ApprovedBy:      m.ApprovedBy,
		ApprovedByRole:  m.ApprovedByRole,
		WorkOrderID:     m.WorkOrderID,
		CreatedAt:       m.CreatedAt,
		Lines:           lines,
	}
}

// MismatchDTO diferencia reportada por la conciliación.
type MismatchDTO struct {
	LocationID string          `json:"location_id"`
	ItemID     string          `json:"item_id"`
	LotID      string          `json:"lot_id,omitempty"`
	LiveQty    decimal.Decimal `json:"live_qty"`
	LedgerQty  decimal.Decimal `json:"ledger_qty"`
	Delta      decimal.Decimal `json:"delta"`
}

// ReconcileResponse reporte de conciliación del kardex.
type ReconcileResponse struct {
	Balanced   bool          `json:"balanced"`
	Checked    int           `json:"checked"`
	Mismatches []MismatchDTO `json:"mismatches"`
}

// NewReconcileResponse mapea el resultado del dominio al DTO.
func NewReconcileResponse(r domkardex.ReconcileResult) ReconcileResponse {
	mismatches := make([]MismatchDTO, 0, len(r.Mismatches))
	for _, m := range r.Mismatches {
		mismatches = append(mismatches, MismatchDTO{
			LocationID: m.Key.LocationID,
			ItemID:     m.Key.ItemID,
			LotID:      m.Key.LotID,
			LiveQty:    m.LiveQty,
			LedgerQty:  m.LedgerQty,
			Delta:      m.Delta,
		})
	}
	return ReconcileResponse{Balanced: r.Balanced, Checked: r.Checked, Mismatches: mismatches}
}

// StockRowDTO fila de stock con catálogo resuelto (columnas de exportación).
type StockRowDTO struct {
	LocationCode string          `json:"location_code"`
	ItemSKU      string          `json:"item_sku"`
	ItemName     string          `json:"item_name"`
	LotCode      string          `json:"lot_code,omitempty"`
	ExpiresAt    string          `json:"expires_at,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	BaseUnit     string          `json:"base_unit"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
