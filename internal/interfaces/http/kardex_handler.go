package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// KardexHandler maneja las peticiones HTTP del kardex (protegido).
type KardexHandler struct {
	submit     *appkardex.SubmitMovementUseCase
	decide     *appkardex.DecideMovementUseCase
	cycleCount *appkardex.CycleCountUseCase
	reconcile  *appkardex.ReconcileUseCase
	query      *appkardex.QueryUseCase
	report     *appkardex.ReportUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(
	submit *appkardex.SubmitMovementUseCase,
	decide *appkardex.DecideMovementUseCase,
	cycleCount *appkardex.CycleCountUseCase,
	reconcile *appkardex.ReconcileUseCase,
	query *appkardex.QueryUseCase,
	report *appkardex.ReportUseCase,
) *KardexHandler {
	return &KardexHandler{
		submit:     submit,
		decide:     decide,
		cycleCount: cycleCount,
		reconcile:  reconcile,
		query:      query,
		report:     report,
	}
}

// kardexError mapea los errores de dominio a su código HTTP. La taxonomía es
// amplia (QR, lotes, validación, aprobación, stock), así que se centraliza
// aquí en lugar de repetir la cadena de ifs en cada handler.
func kardexError(c *fiber.Ctx, err error) error {
	type mapping struct {
		target error
		status int
		code   string
		msg    string
	}
	mappings := []mapping{
		{domain.ErrMalformedQR, fiber.StatusBadRequest, "MALFORMED_QR", "código QR malformado"},
		{domain.ErrCrossTenantQR, fiber.StatusForbidden, "CROSS_TENANT_QR", "el QR pertenece a otra empresa"},
		{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY", "la cantidad debe ser mayor que cero"},
		{domain.ErrReasonRequiredForExpiredUse, fiber.StatusBadRequest, "REASON_REQUIRED_EXPIRED", "usar lotes vencidos exige un motivo"},
		{domain.ErrReasonRequired, fiber.StatusBadRequest, "REASON_REQUIRED", "el motivo es obligatorio para ajustes y bajas"},
		{domain.ErrWorkOrderRequired, fiber.StatusBadRequest, "WORK_ORDER_REQUIRED", "la salida a OT exige una orden de trabajo"},
		{domain.ErrLotRequired, fiber.StatusBadRequest, "LOT_REQUIRED", "el item exige lote (explícito o FIFO automático)"},
		{domain.ErrInvalidTargetStatus, fiber.StatusBadRequest, "INVALID_TARGET_STATUS", "el estado destino debe ser APPROVED o REJECTED"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
		{domain.ErrMovementNotFound, fiber.StatusNotFound, "MOVEMENT_NOT_FOUND", "movimiento no encontrado"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
		{domain.ErrApproverNotAuthorized, fiber.StatusForbidden, "APPROVER_NOT_AUTHORIZED", "el rol no puede aprobar ni rechazar"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado al recurso"},
		{domain.ErrNotPending, fiber.StatusConflict, "NOT_PENDING", "el movimiento ya fue decidido"},
		{domain.ErrExpiredLotConfirmationRequired, fiber.StatusConflict, "EXPIRED_CONFIRMATION_REQUIRED", "solo queda stock vencido: confirme su uso"},
		{domain.ErrInsufficientNonExpiredStock, fiber.StatusConflict, "INSUFFICIENT_NON_EXPIRED_STOCK", "stock no vencido insuficiente"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "registro duplicado"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "token inválido"},
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.msg})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// SubmitMovement registra un movimiento en el kardex.
// POST /api/kardex/movements
func (h *KardexHandler) SubmitMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SubmitMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	movement, err := h.submit.Submit(c.Context(), appkardex.MovementDraft{
		CompanyID:       companyID,
		MovementType:    in.MovementType,
		QRRaw:           in.QR,
		Quantity:        in.Quantity,
		LocationFromID:  in.LocationFromID,
		LocationToID:    in.LocationToID,
		LotID:           in.LotID,
		AutoFIFO:        in.AutoFIFO,
		AllowExpired:    in.AllowExpired,
		Reason:          in.Reason,
		Notes:           in.Notes,
		RequestedBy:     GetUserName(c),
		RequestedByRole: GetRole(c),
		WorkOrderID:     in.WorkOrderID,
		AdjustDirection: in.AdjustDirection,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(movement))
}

// DecideMovement aprueba o rechaza un movimiento PENDING.
// POST /api/kardex/movements/:id/decision
func (h *KardexHandler) DecideMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	movementID := c.Params("id")
	if movementID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.DecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	movement, err := h.decide.Decide(c.Context(), companyID, movementID, in.Approved, GetRole(c), GetUserName(c))
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(movement))
}

// SubmitCycleCount registra un conteo físico; si hay diferencia genera un
// ajuste PENDING, si no, no crea movimiento.
// POST /api/kardex/cycle-counts
func (h *KardexHandler) SubmitCycleCount(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CycleCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	movement, err := h.cycleCount.Submit(c.Context(), appkardex.CycleCountInput{
		CompanyID:       companyID,
		LocationID:      in.LocationID,
		ItemID:          in.ItemID,
		LotID:           in.LotID,
		CountedQty:      in.CountedQty,
		Notes:           in.Notes,
		RequestedBy:     GetUserName(c),
		RequestedByRole: GetRole(c),
	})
	if err != nil {
		return kardexError(c, err)
	}
	if movement == nil {
		return c.JSON(fiber.Map{"message": "conteo sin diferencia: no se generó ajuste"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(movement))
}

// Reconcile compara la proyección viva contra la reconstrucción desde el libro.
// GET /api/kardex/reconcile
func (h *KardexHandler) Reconcile(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	result, err := h.reconcile.Reconcile(c.Context(), companyID)
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(dto.NewReconcileResponse(result))
}

// ListMovements lista el kardex con filtros de fecha, ubicación, item y estado.
// GET /api/kardex/movements
func (h *KardexHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter, err := parseMovementFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro de fechas inválido (RFC3339 o YYYY-MM-DD)"})
	}

	movements, err := h.query.ListMovements(c.Context(), companyID, filter)
	if err != nil {
		return kardexError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, dto.NewMovementResponse(&movements[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// ListPendingApprovals movimientos ADJUST/SCRAP en espera de decisión.
// GET /api/kardex/pending-approvals
func (h *KardexHandler) ListPendingApprovals(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	movements, err := h.query.ListPendingApprovals(c.Context(), companyID)
	if err != nil {
		return kardexError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, dto.NewMovementResponse(&movements[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetStock lista la proyección de saldos con catálogo resuelto.
// GET /api/kardex/stock?location_id=
func (h *KardexHandler) GetStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rows, err := h.query.ListStock(c.Context(), companyID, c.Query("location_id"))
	if err != nil {
		return kardexError(c, err)
	}

	out := make([]dto.StockRowDTO, 0, len(rows))
	for _, row := range rows {
		item := dto.StockRowDTO{
			Quantity:  row.Balance.Quantity,
			UpdatedAt: row.Balance.UpdatedAt,
		}
		if row.Location != nil {
			item.LocationCode = row.Location.Code
		}
		if row.Item != nil {
			item.ItemSKU = row.Item.SKU
			item.ItemName = row.Item.Name
			item.BaseUnit = row.Item.BaseUnit
		}
		if row.Lot != nil {
			item.LotCode = row.Lot.LotCode
			item.ExpiresAt = row.Lot.ExpiresAt.Format("2006-01-02")
		}
		out = append(out, item)
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// KardexReportPDF genera el reporte imprimible del kardex.
// GET /api/kardex/report.pdf
func (h *KardexHandler) KardexReportPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter, err := parseMovementFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro de fechas inválido (RFC3339 o YYYY-MM-DD)"})
	}

	pdfBytes, err := h.report.GeneratePDF(c.Context(), companyID, filter)
	if err != nil {
		return kardexError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}

// parseMovementFilter arma el filtro de listado desde la query string.
func parseMovementFilter(c *fiber.Ctx) (repository.MovementFilter, error) {
	var filter repository.MovementFilter
	if s := c.Query("from"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}
	filter.LocationID = c.Query("location_id")
	filter.ItemID = c.Query("item_id")
	filter.Status = c.Query("status")
	if s := c.Query("limit"); s != "" {
		filter.Limit, _ = strconv.Atoi(s)
	}
	if s := c.Query("offset"); s != "" {
		filter.Offset, _ = strconv.Atoi(s)
	}
	return filter, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
