package kardex

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domkardex "github.com/jhoicas/Kardex-api/internal/domain/kardex"
)

// DecideMovementUseCase aprueba o rechaza movimientos PENDING. La decisión
// es terminal y muta el asiento exactamente una vez.
type DecideMovementUseCase struct {
	txRunner TxRunner
}

// NewDecideMovementUseCase construye el caso de uso.
func NewDecideMovementUseCase(txRunner TxRunner) *DecideMovementUseCase {
	return &DecideMovementUseCase{txRunner: txRunner}
}

// Decide ejecuta la transición PENDING→APPROVED|REJECTED bajo la sección
// crítica de la empresa. Al aprobar re-verifica suficiencia contra la
// proyección actual (el stock pudo moverse desde la creación); si falla,
// el movimiento queda PENDING y el llamador decide reintentar o rechazar.
// De dos decisiones en carrera sobre el mismo id, la perdedora ve ErrNotPending.
func (uc *DecideMovementUseCase) Decide(ctx context.Context, companyID, movementID string, approved bool, approverRole, approverName string) (*entity.KardexMovement, error) {
	var decided *entity.KardexMovement

	err := uc.txRunner.Run(ctx, companyID, func(repos TxRepos) error {
		movement, err := repos.Movements.GetByID(movementID)
		if err != nil {
			return err
		}
		if movement == nil || movement.CompanyID != companyID {
			return domain.ErrMovementNotFound
		}
		// Un asiento ya decidido es terminal: la segunda decisión pierde aquí,
		// antes de que el validador evalúe el asiento como si fuera nuevo.
		if movement.Status != entity.StatusPENDING {
			return domain.ErrNotPending
		}

		newStatus := entity.StatusREJECTED
		if approved {
			newStatus = entity.StatusAPPROVED
		}

		if _, err := domkardex.ValidateMovement(domkardex.ValidationInput{
			MovementType:    movement.MovementType,
			Status:          movement.Status,
			Reason:          movement.Reason,
			RequestedByRole: movement.RequestedByRole,
			ApproverRole:    approverRole,
			HasWorkOrder:    movement.WorkOrderID != "",
			CurrentStatus:   movement.Status,
			NewStatus:       newStatus,
		}); err != nil {
			return err
		}

		if approved {
			if err := ensureNonNegative(repos.Stock, companyID, movement.Lines); err != nil {
				return err
			}
		}

		if err := repos.Movements.UpdateDecision(movement.ID, newStatus, approverName, approverRole); err != nil {
			return err
		}
		movement.Status = newStatus
		movement.ApprovedBy = approverName
		movement.ApprovedByRole = approverRole

		if approved {
			if err := applyApproved(repos.Stock, *movement); err != nil {
				return err
			}
		}
		decided = movement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}
