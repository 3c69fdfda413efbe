package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// WorkOrderRepository puerto de persistencia de órdenes de trabajo. El kardex
// no gobierna su ciclo de vida, solo exige existencia al ligar un OUT_OT.
type WorkOrderRepository interface {
	Create(workOrder *entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	ListByCompany(companyID string) ([]entity.WorkOrder, error)
	// CountByCodePrefix cuenta OTs cuyo código inicia con el prefijo dado,
	// para el consecutivo diario OT-YYYYMMDD-NNN.
	CountByCodePrefix(companyID, prefix string) (int, error)
}
