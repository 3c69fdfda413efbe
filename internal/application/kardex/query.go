package kardex

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// StockRow fila de stock con los datos de catálogo ya resueltos para listar
// o exportar (ubicación, SKU, lote y vencimiento legibles).
type StockRow struct {
	Balance  entity.StockBalance
	Item     *entity.Item
	Location *entity.Location
	Lot      *entity.Lot
}

// QueryUseCase lecturas del kardex y de la proyección (sin escrituras).
type QueryUseCase struct {
	movementRepo repository.KardexMovementRepository
	stockRepo    repository.StockBalanceRepository
	itemRepo     repository.ItemRepository
	lotRepo      repository.LotRepository
	locationRepo repository.LocationRepository
}

// NewQueryUseCase construye el caso de uso con repos atados al pool.
func NewQueryUseCase(
	movementRepo repository.KardexMovementRepository,
	stockRepo repository.StockBalanceRepository,
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	locationRepo repository.LocationRepository,
) *QueryUseCase {
	return &QueryUseCase{
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
		itemRepo:     itemRepo,
		lotRepo:      lotRepo,
		locationRepo: locationRepo,
	}
}

// ListMovements kardex de la empresa con filtros de fecha/ubicación/item.
func (uc *QueryUseCase) ListMovements(_ context.Context, companyID string, f repository.MovementFilter) ([]entity.KardexMovement, error) {
	return uc.movementRepo.ListByCompany(companyID, f)
}

// ListPendingApprovals movimientos PENDING (ADJUST/SCRAP) en espera de decisión.
func (uc *QueryUseCase) ListPendingApprovals(_ context.Context, companyID string) ([]entity.KardexMovement, error) {
	return uc.movementRepo.ListPendingApprovals(companyID)
}

// ListStock saldos de la empresa con item/ubicación/lote resueltos.
// locationID vacío lista todas las ubicaciones.
func (uc *QueryUseCase) ListStock(_ context.Context, companyID, locationID string) ([]StockRow, error) {
	balances, err := uc.stockRepo.ListByCompany(companyID, locationID)
	if err != nil {
		return nil, err
	}

	rows := make([]StockRow, 0, len(balances))
	for _, balance := range balances {
		row := StockRow{Balance: balance}
		if row.Item, err = uc.itemRepo.GetByID(balance.ItemID); err != nil {
			return nil, err
		}
		if row.Location, err = uc.locationRepo.GetByID(balance.LocationID); err != nil {
			return nil, err
		}
		if balance.LotID != "" {
			if row.Lot, err = uc.lotRepo.GetByID(balance.LotID); err != nil {
				return nil, err
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
