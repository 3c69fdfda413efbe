package kardex_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/kardex"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fifoToday = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lot(id, code string, expires time.Time, available string) kardex.FIFOLot {
	return kardex.FIFOLot{
		LotID:        id,
		ItemID:       "ITEM-RES",
		LocationID:   "LOC-A",
		LotCode:      code,
		ExpiresAt:    expires,
		AvailableQty: qty(available),
	}
}

func fifoRequest(requested string, lots ...kardex.FIFOLot) kardex.FIFORequest {
	return kardex.FIFORequest{
		ItemID:       "ITEM-RES",
		LocationID:   "LOC-A",
		RequestedQty: qty(requested),
		Lots:         lots,
		Today:        fifoToday,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Asignación básica
// ──────────────────────────────────────────────────────────────────────────────

// Dos lotes vigentes, el de vencimiento más próximo se consume primero y el
// segundo cubre el resto: 150 = 120 de RES-2401 + 30 de RES-2402.
func TestAllocateFIFO_ConsumePorVencimiento(t *testing.T) {
	result, err := kardex.AllocateFIFO(fifoRequest("150",
		lot("L2", "RES-2402", time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC), "90"),
		lot("L1", "RES-2401", time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC), "120"),
	))
	require.NoError(t, err)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, "RES-2401", result.Allocations[0].LotCode)
	assert.True(t, result.Allocations[0].Qty.Equal(qty("120")))
	assert.Equal(t, "RES-2402", result.Allocations[1].LotCode)
	assert.True(t, result.Allocations[1].Qty.Equal(qty("30")))

	assert.True(t, result.FulfilledQty.Equal(qty("150")))
	assert.True(t, result.MissingQty.IsZero())
	assert.False(t, result.UsedExpired)
	assert.Empty(t, result.Warnings)
}

// A igual fecha de vencimiento desempata el código de lote ascendente:
// mismas entradas producen siempre la misma asignación.
func TestAllocateFIFO_DesempatePorCodigoDeLote(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	req := fifoRequest("10",
		lot("LB", "LOTE-B", expiry, "50"),
		lot("LA", "LOTE-A", expiry, "50"),
	)

	first, err := kardex.AllocateFIFO(req)
	require.NoError(t, err)
	second, err := kardex.AllocateFIFO(req)
	require.NoError(t, err)

	require.Len(t, first.Allocations, 1)
	assert.Equal(t, "LOTE-A", first.Allocations[0].LotCode)
	assert.Equal(t, first.Allocations, second.Allocations, "misma entrada, misma asignación")
}

// Cantidad solicitada mayor que el total disponible sin lotes vencidos de
// respaldo: no hay llenado parcial silencioso.
func TestAllocateFIFO_StockInsuficiente(t *testing.T) {
	_, err := kardex.AllocateFIFO(fifoRequest("250",
		lot("L1", "RES-2401", time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC), "120"),
		lot("L2", "RES-2402", time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC), "90"),
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientNonExpiredStock)
}

// Cantidad no positiva se rechaza antes de mirar los lotes.
func TestAllocateFIFO_CantidadInvalida(t *testing.T) {
	for _, requested := range []string{"0", "-5"} {
		_, err := kardex.AllocateFIFO(fifoRequest(requested))
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

// Lotes de otro item u otra ubicación no participan del pool.
func TestAllocateFIFO_IgnoraOtrosItemsYUbicaciones(t *testing.T) {
	otherItem := lot("LX", "OTRO", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "999")
	otherItem.ItemID = "ITEM-OTRO"
	otherLocation := lot("LY", "LEJOS", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "999")
	otherLocation.LocationID = "LOC-B"

	_, err := kardex.AllocateFIFO(fifoRequest("10", otherItem, otherLocation))
	assert.ErrorIs(t, err, domain.ErrInsufficientNonExpiredStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes vencidos
// ──────────────────────────────────────────────────────────────────────────────

// El corte de vencimiento es por fecha calendario: un lote que vence hoy
// todavía se asigna como vigente.
func TestAllocateFIFO_LoteQueVenceHoyNoEstaVencido(t *testing.T) {
	result, err := kardex.AllocateFIFO(fifoRequest("5",
		lot("L1", "HOY", fifoToday, "10"),
	))
	require.NoError(t, err)
	require.Len(t, result.Allocations, 1)
	assert.False(t, result.Allocations[0].Expired)
	assert.False(t, result.UsedExpired)
}

// Con vigente insuficiente y vencido disponible, sin confirmación explícita
// se exige confirmar antes de tocar lo vencido.
func TestAllocateFIFO_VencidoSinConfirmacion(t *testing.T) {
	req := fifoRequest("100",
		lot("L1", "VIGENTE", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), "40"),
		lot("L2", "VENCIDO", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "80"),
	)
	_, err := kardex.AllocateFIFO(req)
	assert.ErrorIs(t, err, domain.ErrExpiredLotConfirmationRequired)
}

// Confirmado pero sin motivo: también se rechaza.
func TestAllocateFIFO_VencidoSinMotivo(t *testing.T) {
	req := fifoRequest("100",
		lot("L1", "VIGENTE", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), "40"),
		lot("L2", "VENCIDO", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "80"),
	)
	req.AllowExpired = true
	_, err := kardex.AllocateFIFO(req)
	assert.ErrorIs(t, err, domain.ErrReasonRequiredForExpiredUse)
}

// Confirmado y con motivo: lo vigente se agota primero, lo vencido completa,
// y la asignación queda marcada con advertencia.
func TestAllocateFIFO_VencidoConfirmadoCompletaSalida(t *testing.T) {
	req := fifoRequest("100",
		lot("L1", "VIGENTE", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), "40"),
		lot("L2", "VENCIDO", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "80"),
	)
	req.AllowExpired = true
	req.Reason = "Producción autoriza uso de vencido"

	result, err := kardex.AllocateFIFO(req)
	require.NoError(t, err)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, "VIGENTE", result.Allocations[0].LotCode)
	assert.False(t, result.Allocations[0].Expired)
	assert.Equal(t, "VENCIDO", result.Allocations[1].LotCode)
	assert.True(t, result.Allocations[1].Expired)
	assert.True(t, result.Allocations[1].Qty.Equal(qty("60")))

	assert.True(t, result.UsedExpired)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Se utilizaron lotes vencidos para completar la salida", result.Warnings[0])
}

// Solo hay lotes vencidos: la advertencia cambia para reflejarlo.
func TestAllocateFIFO_SoloVencidos(t *testing.T) {
	req := fifoRequest("20",
		lot("L2", "VENCIDO", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "80"),
	)
	req.AllowExpired = true
	req.Reason = "Baja sanitaria"

	result, err := kardex.AllocateFIFO(req)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Todos los lotes disponibles se encuentran vencidos", result.Warnings[0])
	assert.True(t, result.UsedExpired)
}

// Incluso sumando lo vencido no alcanza: el faltante se reporta, no se lanza.
func TestAllocateFIFO_ParcialReportaFaltante(t *testing.T) {
	req := fifoRequest("200",
		lot("L1", "VIGENTE", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), "40"),
		lot("L2", "VENCIDO", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "80"),
	)
	req.AllowExpired = true
	req.Reason = "Cierre de obra"

	result, err := kardex.AllocateFIFO(req)
	require.NoError(t, err)
	assert.True(t, result.FulfilledQty.Equal(qty("120")))
	assert.True(t, result.MissingQty.Equal(qty("80")), "el faltante se reporta en el resultado")
}
