package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// WorkOrderHandler maneja las peticiones HTTP de órdenes de trabajo (protegido).
type WorkOrderHandler struct {
	uc *usecase.WorkOrderUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *usecase.WorkOrderUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// Create crea una OT con código consecutivo diario.
// POST /api/work-orders
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	workOrder, err := h.uc.Create(c.Context(), usecase.CreateWorkOrderInput{
		CompanyID:   companyID,
		Responsible: in.Responsible,
		CostCenter:  in.CostCenter,
		Notes:       in.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "responsable y centro de costo son obligatorios"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "código de OT duplicado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(workOrderDTO(workOrder))
}

// List lista las órdenes de trabajo de la empresa.
// GET /api/work-orders
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	workOrders, err := h.uc.List(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.WorkOrderDTO, 0, len(workOrders))
	for i := range workOrders {
		out = append(out, workOrderDTO(&workOrders[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "work_orders": out})
}

func workOrderDTO(w *entity.WorkOrder) dto.WorkOrderDTO {
	return dto.WorkOrderDTO{
		ID:          w.ID,
		Code:        w.Code,
		Responsible: w.Responsible,
		CostCenter:  w.CostCenter,
		Status:      w.Status,
		Notes:       w.Notes,
		CreatedAt:   w.CreatedAt,
	}
}
