package kardex

import (
	"strings"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ValidationInput movimiento candidato para el chequeo de reglas de negocio.
// CurrentStatus/NewStatus solo se llenan al decidir un movimiento PENDING;
// vacíos, no se ejecuta el chequeo de transición.
type ValidationInput struct {
	MovementType    string
	Status          string
	Reason          string
	RequestedByRole string
	ApproverRole    string
	HasWorkOrder    bool
	CurrentStatus   string
	NewStatus       string
}

// ValidationResult resultado de un chequeo válido. Las advertencias no
// bloquean el movimiento, solo se reportan al operador.
type ValidationResult struct {
	Warnings []string
}

// ValidateMovement chequeo puro de reglas sobre un movimiento candidato,
// sin efectos secundarios. Se consulta en dos puntos: antes de crear el
// asiento y antes de una transición de aprobación.
func ValidateMovement(in ValidationInput) (ValidationResult, error) {
	movementType := strings.ToUpper(strings.TrimSpace(in.MovementType))
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	requestedByRole := strings.ToUpper(strings.TrimSpace(in.RequestedByRole))

	if !entity.ValidMovementType(movementType) {
		return ValidationResult{}, domain.ErrInvalidInput
	}
	if !entity.ValidStatus(status) {
		return ValidationResult{}, domain.ErrInvalidInput
	}
	if !entity.ValidRole(requestedByRole) {
		return ValidationResult{}, domain.ErrInvalidInput
	}

	sensitive := movementType == entity.MovementTypeADJUST || movementType == entity.MovementTypeSCRAP

	if sensitive && strings.TrimSpace(in.Reason) == "" {
		return ValidationResult{}, domain.ErrReasonRequired
	}
	// ADJUST y SCRAP nunca nacen auto-aprobados.
	if sensitive && status != entity.StatusPENDING {
		return ValidationResult{}, domain.ErrInvalidInput
	}
	if movementType == entity.MovementTypeOUTOT && !in.HasWorkOrder {
		return ValidationResult{}, domain.ErrWorkOrderRequired
	}

	var warnings []string

	if in.CurrentStatus != "" && in.NewStatus != "" {
		currentStatus := strings.ToUpper(strings.TrimSpace(in.CurrentStatus))
		newStatus := strings.ToUpper(strings.TrimSpace(in.NewStatus))

		if currentStatus != entity.StatusPENDING {
			return ValidationResult{}, domain.ErrNotPending
		}
		if newStatus != entity.StatusAPPROVED && newStatus != entity.StatusREJECTED {
			return ValidationResult{}, domain.ErrInvalidTargetStatus
		}

		approverRole := strings.ToUpper(strings.TrimSpace(in.ApproverRole))
		switch approverRole {
		case entity.RoleSUPERVISOR, entity.RoleADMIN, entity.RoleSUPERADMIN:
		default:
			return ValidationResult{}, domain.ErrApproverNotAuthorized
		}

		if approverRole == entity.RoleSUPERVISOR && movementType == entity.MovementTypeSCRAP {
			warnings = append(warnings, "Supervisor aprobando SCRAP: revisar politica interna de montos")
		}
	}

	return ValidationResult{Warnings: warnings}, nil
}
