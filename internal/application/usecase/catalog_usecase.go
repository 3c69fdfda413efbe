package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// CatalogUseCase lecturas de catálogo: items, lotes y ubicaciones.
type CatalogUseCase struct {
	itemRepo     repository.ItemRepository
	lotRepo      repository.LotRepository
	locationRepo repository.LocationRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	locationRepo repository.LocationRepository,
) *CatalogUseCase {
	return &CatalogUseCase{itemRepo: itemRepo, lotRepo: lotRepo, locationRepo: locationRepo}
}

// quita diacríticos para buscar "azucar" y encontrar "Azúcar"
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ListItems items de la empresa. Con search filtra por SKU o nombre,
// insensible a mayúsculas y acentos.
func (uc *CatalogUseCase) ListItems(_ context.Context, companyID, search string) ([]entity.Item, error) {
	items, err := uc.itemRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	search = strings.TrimSpace(search)
	if search == "" {
		return items, nil
	}

	needle := fold(search)
	filtered := make([]entity.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(fold(item.SKU), needle) || strings.Contains(fold(item.Name), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// ListLotsByItem lotes de un item.
func (uc *CatalogUseCase) ListLotsByItem(_ context.Context, itemID string) ([]entity.Lot, error) {
	return uc.lotRepo.ListByItem(itemID)
}

// ListExpiringLots lotes que vencen dentro de la ventana dada (días desde
// hoy; 30 por defecto si days <= 0).
func (uc *CatalogUseCase) ListExpiringLots(_ context.Context, companyID string, days int) ([]entity.Lot, error) {
	if days <= 0 {
		days = 30
	}
	limit := entity.DateOnly(time.Now()).AddDate(0, 0, days)
	return uc.lotRepo.ListExpiring(companyID, limit)
}

// ListLocations ubicaciones de la empresa.
func (uc *CatalogUseCase) ListLocations(_ context.Context, companyID string) ([]entity.Location, error) {
	return uc.locationRepo.ListByCompany(companyID)
}
