package kardex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/kardex"
)

func ledger() []entity.KardexMovement {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	initial := movement("M1", entity.StatusAPPROVED, line("LOC-A", "ITEM-1", "L1", "100"))
	initial.MovementType = entity.MovementTypeINITIAL
	initial.CreatedAt = base

	out := movement("M2", entity.StatusAPPROVED, line("LOC-A", "ITEM-1", "L1", "-40"))
	out.MovementType = entity.MovementTypeOUTOT
	out.CreatedAt = base.Add(time.Hour)

	pending := movement("M3", entity.StatusPENDING, line("LOC-A", "ITEM-1", "L1", "-999"))
	pending.MovementType = entity.MovementTypeADJUST
	pending.CreatedAt = base.Add(2 * time.Hour)

	return []entity.KardexMovement{out, pending, initial} // desordenado a propósito
}

// Rebuild ordena por fecha, ignora lo no aprobado y pliega los deltas.
func TestRebuild_ProyeccionDesdeElLibro(t *testing.T) {
	balances, err := kardex.Rebuild(ledger())
	require.NoError(t, err)

	require.Len(t, balances, 1)
	assert.True(t, balances.Quantity(key("LOC-A", "ITEM-1", "L1")).Equal(qty("60")),
		"100 iniciales menos 40 de salida; el PENDING no cuenta")
}

// Proyección viva fiel al libro: conciliación balanceada.
func TestReconcile_Balanceada(t *testing.T) {
	movements := ledger()
	live, err := kardex.Rebuild(movements)
	require.NoError(t, err)

	result, err := kardex.Reconcile(live, movements)
	require.NoError(t, err)

	assert.True(t, result.Balanced)
	assert.Equal(t, 1, result.Checked)
	assert.Empty(t, result.Mismatches)
}

// Saldo vivo adulterado: la conciliación reporta la clave con su delta
// (vivo menos libro) y no corrige nada.
func TestReconcile_DetectaDeriva(t *testing.T) {
	movements := ledger()
	live, err := kardex.Rebuild(movements)
	require.NoError(t, err)

	tampered := key("LOC-A", "ITEM-1", "L1")
	row := live[tampered]
	row.Quantity = qty("55")
	live[tampered] = row

	result, err := kardex.Reconcile(live, movements)
	require.NoError(t, err)

	assert.False(t, result.Balanced)
	require.Len(t, result.Mismatches, 1)
	m := result.Mismatches[0]
	assert.Equal(t, tampered, m.Key)
	assert.True(t, m.LiveQty.Equal(qty("55")))
	assert.True(t, m.LedgerQty.Equal(qty("60")))
	assert.True(t, m.Delta.Equal(qty("-5")), "delta = vivo - libro")

	// La proyección viva no se tocó.
	assert.True(t, live.Quantity(tampered).Equal(qty("55")))
}

// Una fila viva que el libro no respalda también es deriva (clave fantasma).
func TestReconcile_FilaFantasma(t *testing.T) {
	movements := ledger()
	live, err := kardex.Rebuild(movements)
	require.NoError(t, err)

	ghost := key("LOC-Z", "ITEM-9", "")
	live[ghost] = entity.StockBalance{
		CompanyID: testCompany, LocationID: "LOC-Z", ItemID: "ITEM-9",
		Quantity: qty("7"),
	}

	result, err := kardex.Reconcile(live, movements)
	require.NoError(t, err)

	assert.False(t, result.Balanced)
	assert.Equal(t, 2, result.Checked, "se revisa la unión de claves de ambos lados")
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, ghost, result.Mismatches[0].Key)
	assert.True(t, result.Mismatches[0].LedgerQty.IsZero())
}

// Mismos insumos, mismo reporte: el orden de los mismatches es estable.
func TestReconcile_Determinista(t *testing.T) {
	movements := ledger()
	live := kardex.Balances{}

	first, err := kardex.Reconcile(live, movements)
	require.NoError(t, err)
	second, err := kardex.Reconcile(live, movements)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
