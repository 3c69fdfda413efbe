package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// CatalogHandler maneja las lecturas de catálogo: items, lotes y ubicaciones
// (protegido). El catálogo es de solo lectura desde esta API.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListItems lista items con búsqueda opcional (insensible a acentos).
// GET /api/catalog/items?search=
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	items, err := h.uc.ListItems(c.Context(), companyID, c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, itemDTO(item))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// ListLotsByItem lista los lotes de un item.
// GET /api/catalog/items/:id/lots
func (h *CatalogHandler) ListLotsByItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	lots, err := h.uc.ListLotsByItem(c.Context(), itemID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LotDTO, 0, len(lots))
	for _, lot := range lots {
		out = append(out, lotDTO(lot))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// ListExpiringLots lotes que vencen dentro de N días (default 30).
// GET /api/catalog/lots/expiring?days=
func (h *CatalogHandler) ListExpiringLots(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	days := 0
	if s := c.Query("days"); s != "" {
		days, _ = strconv.Atoi(s)
	}
	lots, err := h.uc.ListExpiringLots(c.Context(), companyID, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LotDTO, 0, len(lots))
	for _, lot := range lots {
		out = append(out, lotDTO(lot))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// ListLocations lista las ubicaciones de bodega de la empresa.
// GET /api/catalog/locations
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	locations, err := h.uc.ListLocations(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LocationDTO, 0, len(locations))
	for _, location := range locations {
		out = append(out, dto.LocationDTO{
			ID:   location.ID,
			Code: location.Code,
			Name: location.Name,
			Zone: location.Zone,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "locations": out})
}

func itemDTO(item entity.Item) dto.ItemDTO {
	return dto.ItemDTO{
		ID:        item.ID,
		SKU:       item.SKU,
		Name:      item.Name,
		BaseUnit:  item.BaseUnit,
		Category:  item.Category,
		HasExpiry: item.HasExpiry,
		ByLot:     item.ByLot,
		QRCode:    item.QRCode,
	}
}

func lotDTO(lot entity.Lot) dto.LotDTO {
	return dto.LotDTO{
		ID:        lot.ID,
		ItemID:    lot.ItemID,
		LotCode:   lot.LotCode,
		QRCode:    lot.QRCode,
		ExpiresAt: lot.ExpiresAt,
	}
}
