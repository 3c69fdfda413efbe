package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// WorkOrderUseCase administra órdenes de trabajo. Su ciclo de vida es ajeno
// al kardex: aquí solo se crean y listan para que OUT_OT pueda referenciarlas.
type WorkOrderUseCase struct {
	workOrderRepo repository.WorkOrderRepository
}

// NewWorkOrderUseCase construye el caso de uso.
func NewWorkOrderUseCase(workOrderRepo repository.WorkOrderRepository) *WorkOrderUseCase {
	return &WorkOrderUseCase{workOrderRepo: workOrderRepo}
}

// CreateWorkOrderInput datos para crear una OT.
type CreateWorkOrderInput struct {
	CompanyID   string
	Responsible string
	CostCenter  string
	Notes       string
}

// Create genera el código consecutivo diario OT-YYYYMMDD-NNN y persiste la
// orden en estado OPEN.
func (uc *WorkOrderUseCase) Create(_ context.Context, in CreateWorkOrderInput) (*entity.WorkOrder, error) {
	if strings.TrimSpace(in.Responsible) == "" || strings.TrimSpace(in.CostCenter) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	prefix := fmt.Sprintf("OT-%s", now.Format("20060102"))
	sequence, err := uc.workOrderRepo.CountByCodePrefix(in.CompanyID, prefix)
	if err != nil {
		return nil, err
	}

	workOrder := &entity.WorkOrder{
		ID:          uuid.New().String(),
		CompanyID:   in.CompanyID,
		Code:        fmt.Sprintf("%s-%03d", prefix, sequence+1),
		Responsible: strings.TrimSpace(in.Responsible),
		CostCenter:  strings.TrimSpace(in.CostCenter),
		Status:      entity.WorkOrderOPEN,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
	}
	if err := uc.workOrderRepo.Create(workOrder); err != nil {
		return nil, err
	}
	return workOrder, nil
}

// List órdenes de trabajo de la empresa.
func (uc *WorkOrderUseCase) List(_ context.Context, companyID string) ([]entity.WorkOrder, error) {
	return uc.workOrderRepo.ListByCompany(companyID)
}
