package kardex

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// QtyPrecision dígitos fraccionarios fijos de toda cantidad almacenada.
// Cada suma de deltas se redondea a esta precisión para evitar deriva.
const QtyPrecision = 4

// Round normaliza una cantidad a la precisión fija del kardex.
func Round(q decimal.Decimal) decimal.Decimal {
	return q.Round(QtyPrecision)
}

// StockKey clave exacta de un saldo. LotID vacío = sin lote.
type StockKey struct {
	CompanyID  string
	LocationID string
	ItemID     string
	LotID      string
}

// Balances proyección de saldos en memoria, indexada por clave exacta.
// La ausencia de una clave significa cantidad cero.
type Balances map[StockKey]entity.StockBalance

// Quantity devuelve la cantidad para la clave, cero si no existe fila.
func (b Balances) Quantity(key StockKey) decimal.Decimal {
	if row, ok := b[key]; ok {
		return row.Quantity
	}
	return decimal.Zero
}

// LineKey clave de saldo afectada por una línea de movimiento.
func LineKey(companyID string, line entity.MovementLine) StockKey {
	return StockKey{
		CompanyID:  companyID,
		LocationID: line.LocationID,
		ItemID:     line.ItemID,
		LotID:      line.LotID,
	}
}

// Apply aplica las líneas de un movimiento sobre la proyección. No hace nada
// si el movimiento no está APPROVED. Una fila cuyo resultado queda en cero o
// por debajo se elimina: las cantidades nunca se almacenan negativas. Un delta
// no positivo sobre una clave ausente es una violación de precondición (el
// chequeo de suficiencia del motor existe para que nunca llegue aquí).
func Apply(balances Balances, movement entity.KardexMovement) error {
	if movement.Status != entity.StatusAPPROVED {
		return nil
	}

	for _, line := range movement.Lines {
		key := LineKey(movement.CompanyID, line)
		row, exists := balances[key]

		if exists {
			qty := Round(row.Quantity.Add(line.DeltaQty))
			if qty.LessThanOrEqual(decimal.Zero) {
				delete(balances, key)
				continue
			}
			row.Quantity = qty
			row.UpdatedAt = movement.CreatedAt
			balances[key] = row
			continue
		}

		if !line.DeltaQty.GreaterThan(decimal.Zero) {
			return fmt.Errorf("delta negativo sobre saldo inexistente %s/%s: %w",
				line.LocationID, line.ItemID, domain.ErrInsufficientStock)
		}
		balances[key] = entity.StockBalance{
			CompanyID:  movement.CompanyID,
			LocationID: line.LocationID,
			ItemID:     line.ItemID,
			LotID:      line.LotID,
			Quantity:   Round(line.DeltaQty),
			UpdatedAt:  movement.CreatedAt,
		}
	}
	return nil
}
