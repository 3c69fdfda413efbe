package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// MovementFilter filtros de listado del kardex.
type MovementFilter struct {
	From       *time.Time
	To         *time.Time
	LocationID string
	ItemID     string
	Status     string
	Limit      int
	Offset     int
}

// KardexMovementRepository puerto de persistencia del libro de movimientos.
// Los asientos nunca se eliminan; la única mutación permitida es la decisión
// de un movimiento PENDING (estado terminal + identidad del aprobador).
type KardexMovementRepository interface {
	Create(movement *entity.KardexMovement) error
	GetByID(id string) (*entity.KardexMovement, error)
	// UpdateDecision fija el estado terminal y el aprobador. Solo aplica si
	// el movimiento sigue PENDING; devuelve domain.ErrNotPending si no.
	UpdateDecision(id, status, approvedBy, approvedByRole string) error
	ListByCompany(companyID string, f MovementFilter) ([]entity.KardexMovement, error)
	ListPendingApprovals(companyID string) ([]entity.KardexMovement, error)
}
