package kardex

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Mismatch diferencia entre el saldo vivo y el reconstruido desde el kardex.
// Delta = LiveQty - LedgerQty.
type Mismatch struct {
	Key       StockKey
	LiveQty   decimal.Decimal
	LedgerQty decimal.Decimal
	Delta     decimal.Decimal
}

// ReconcileResult reporte de conciliación. Balanced es verdadero si y solo
// si no hay diferencias.
type ReconcileResult struct {
	Balanced   bool
	Checked    int
	Mismatches []Mismatch
}

// Rebuild reconstruye la proyección completa plegando Apply sobre los
// movimientos APPROVED en orden de creación ascendente (empates por ID,
// para un orden total determinista).
func Rebuild(movements []entity.KardexMovement) (Balances, error) {
	approved := make([]entity.KardexMovement, 0, len(movements))
	for _, m := range movements {
		if m.Status == entity.StatusAPPROVED {
			approved = append(approved, m)
		}
	}
	sort.Slice(approved, func(i, j int) bool {
		if !approved[i].CreatedAt.Equal(approved[j].CreatedAt) {
			return approved[i].CreatedAt.Before(approved[j].CreatedAt)
		}
		return approved[i].ID < approved[j].ID
	})

	balances := Balances{}
	for _, m := range approved {
		if err := Apply(balances, m); err != nil {
			return nil, err
		}
	}
	return balances, nil
}

// Reconcile reconstruye la proyección desde el kardex y la compara con la
// proyección viva, clave por clave sobre la unión de ambos lados. Solo
// reporta: nunca muta la proyección viva. Idempotente y sin efectos.
func Reconcile(live Balances, movements []entity.KardexMovement) (ReconcileResult, error) {
	rebuilt, err := Rebuild(movements)
	if err != nil {
		return ReconcileResult{}, err
	}

	keys := make(map[StockKey]struct{}, len(live)+len(rebuilt))
	for key := range live {
		keys[key] = struct{}{}
	}
	for key := range rebuilt {
		keys[key] = struct{}{}
	}

	var mismatches []Mismatch
	for key := range keys {
		liveQty := live.Quantity(key)
		ledgerQty := rebuilt.Quantity(key)
		delta := Round(liveQty.Sub(ledgerQty))
		if !delta.IsZero() {
			mismatches = append(mismatches, Mismatch{
				Key:       key,
				LiveQty:   liveQty,
				LedgerQty: ledgerQty,
				Delta:     delta,
			})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool {
		a, b := mismatches[i].Key, mismatches[j].Key
		if a.LocationID != b.LocationID {
			return a.LocationID < b.LocationID
		}
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.LotID < b.LotID
	})

	return ReconcileResult{
		Balanced:   len(mismatches) == 0,
		Checked:    len(keys),
		Mismatches: mismatches,
	}, nil
}
