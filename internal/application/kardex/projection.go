package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domkardex "github.com/jhoicas/Kardex-api/internal/domain/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ensureNonNegative verifica que aplicar las líneas no deje ningún saldo
// afectado por debajo de cero. Agrega los deltas netos por clave (un TRANSFER
// FIFO puede tocar la misma clave más de una vez) y compara contra la
// proyección actual. Obligatorio también fuera de la ruta FIFO: un lote
// elegido a mano en OUT_OT pasa por aquí igual.
func ensureNonNegative(stockRepo repository.StockBalanceRepository, companyID string, lines []entity.MovementLine) error {
	net := make(map[domkardex.StockKey]decimal.Decimal, len(lines))
	for _, line := range lines {
		key := domkardex.LineKey(companyID, line)
		net[key] = net[key].Add(line.DeltaQty)
	}

	for key, delta := range net {
		if !delta.IsNegative() {
			continue
		}
		row, err := stockRepo.Get(key.CompanyID, key.LocationID, key.ItemID, key.LotID)
		if err != nil {
			return err
		}
		if domkardex.Round(row.Quantity.Add(delta)).IsNegative() {
			return domain.ErrInsufficientStock
		}
	}
	return nil
}

// applyApproved materializa un movimiento APPROVED sobre el almacén de saldos.
// Carga las claves afectadas, delega la regla de actualización al proyector
// puro (única implementación de la regla) y escribe de vuelta las diferencias:
// upsert para filas vivas, delete para filas que quedaron en cero.
func applyApproved(stockRepo repository.StockBalanceRepository, movement entity.KardexMovement) error {
	balances := domkardex.Balances{}
	keys := make(map[domkardex.StockKey]struct{}, len(movement.Lines))

	for _, line := range movement.Lines {
		key := domkardex.LineKey(movement.CompanyID, line)
		if _, seen := keys[key]; seen {
			continue
		}
		keys[key] = struct{}{}

		row, err := stockRepo.Get(key.CompanyID, key.LocationID, key.ItemID, key.LotID)
		if err != nil {
			return err
		}
		if row.Quantity.GreaterThan(decimal.Zero) {
			balances[key] = *row
		}
	}

	if err := domkardex.Apply(balances, movement); err != nil {
		return err
	}

	for key := range keys {
		if row, ok := balances[key]; ok {
			row := row
			if err := stockRepo.Upsert(&row); err != nil {
				return err
			}
			continue
		}
		if err := stockRepo.Delete(key.CompanyID, key.LocationID, key.ItemID, key.LotID); err != nil {
			return err
		}
	}
	return nil
}
