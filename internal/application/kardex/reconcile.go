package kardex

import (
	"context"

	domkardex "github.com/jhoicas/Kardex-api/internal/domain/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ReconcileUseCase reconstruye la proyección desde el kardex y la compara con
// los saldos vivos. Solo lectura: puede correr en paralelo con escrituras,
// pero el reporte refleja una foto puntual, no un instante transaccional.
type ReconcileUseCase struct {
	movementRepo repository.KardexMovementRepository
	stockRepo    repository.StockBalanceRepository
}

// NewReconcileUseCase construye el caso de uso con repos atados al pool.
func NewReconcileUseCase(
	movementRepo repository.KardexMovementRepository,
	stockRepo repository.StockBalanceRepository,
) *ReconcileUseCase {
	return &ReconcileUseCase{movementRepo: movementRepo, stockRepo: stockRepo}
}

// Reconcile devuelve el reporte de deriva de la empresa. Nunca muta la
// proyección: las diferencias quedan para que un operador las investigue.
func (uc *ReconcileUseCase) Reconcile(_ context.Context, companyID string) (domkardex.ReconcileResult, error) {
	movements, err := uc.movementRepo.ListByCompany(companyID, repository.MovementFilter{})
	if err != nil {
		return domkardex.ReconcileResult{}, err
	}
	rows, err := uc.stockRepo.ListByCompany(companyID, "")
	if err != nil {
		return domkardex.ReconcileResult{}, err
	}

	live := domkardex.Balances{}
	for _, row := range rows {
		live[domkardex.StockKey{
			CompanyID:  row.CompanyID,
			LocationID: row.LocationID,
			ItemID:     row.ItemID,
			LotID:      row.LotID,
		}] = row
	}

	return domkardex.Reconcile(live, movements)
}
