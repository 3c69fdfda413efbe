package kardex

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// FIFOLot saldo disponible de un lote candidato a asignación.
type FIFOLot struct {
	LotID        string
	ItemID       string
	LocationID   string
	LotCode      string
	ExpiresAt    time.Time
	AvailableQty decimal.Decimal
}

// FIFOAllocation consumo asignado sobre un lote.
type FIFOAllocation struct {
	LotID     string
	LotCode   string
	Qty       decimal.Decimal
	ExpiresAt time.Time
	Expired   bool
}

// FIFORequest solicitud de asignación FIFO para un item en una ubicación.
// Today fija la fecha de corte de vencimiento; en cero se usa la fecha actual.
type FIFORequest struct {
	ItemID       string
	LocationID   string
	RequestedQty decimal.Decimal
	Lots         []FIFOLot
	AllowExpired bool
	Reason       string
	Today        time.Time
}

// FIFOResult resultado de la asignación. MissingQty > 0 indica llenado
// parcial: este nivel no lo trata como error, el motor del kardex decide
// (y para este sistema un parcial nunca se confirma).
type FIFOResult struct {
	Allocations  []FIFOAllocation
	FulfilledQty decimal.Decimal
	MissingQty   decimal.Decimal
	UsedExpired  bool
	Warnings     []string
}

// AllocateFIFO asigna lotes para cubrir la cantidad solicitada consumiendo
// primero los lotes de vencimiento más próximo. Orden total determinista:
// fecha de vencimiento ascendente y, a igual fecha, código de lote ascendente.
// Los lotes vencidos solo entran al pool con AllowExpired y motivo presente.
func AllocateFIFO(req FIFORequest) (FIFOResult, error) {
	if !req.RequestedQty.GreaterThan(decimal.Zero) {
		return FIFOResult{}, domain.ErrInvalidQuantity
	}

	today := req.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = entity.DateOnly(today)

	var nonExpired, expired []FIFOLot
	for _, lot := range req.Lots {
		if lot.ItemID != req.ItemID || lot.LocationID != req.LocationID {
			continue
		}
		if !lot.AvailableQty.GreaterThan(decimal.Zero) {
			continue
		}
		if entity.DateOnly(lot.ExpiresAt).Before(today) {
			expired = append(expired, lot)
		} else {
			nonExpired = append(nonExpired, lot)
		}
	}
	sortLots(nonExpired)
	sortLots(expired)

	hasReason := strings.TrimSpace(req.Reason) != ""
	var warnings []string
	var pool []FIFOAllocation

	appendPool := func(lots []FIFOLot, isExpired bool) {
		for _, lot := range lots {
			pool = append(pool, FIFOAllocation{
				LotID:     lot.LotID,
				LotCode:   lot.LotCode,
				Qty:       lot.AvailableQty,
				ExpiresAt: lot.ExpiresAt,
				Expired:   isExpired,
			})
		}
	}

	nonExpiredTotal := decimal.Zero
	for _, lot := range nonExpired {
		nonExpiredTotal = nonExpiredTotal.Add(lot.AvailableQty)
	}

	if nonExpiredTotal.LessThan(req.RequestedQty) {
		if len(expired) == 0 {
			return FIFOResult{}, domain.ErrInsufficientNonExpiredStock
		}
		if !req.AllowExpired {
			return FIFOResult{}, domain.ErrExpiredLotConfirmationRequired
		}
		if !hasReason {
			return FIFOResult{}, domain.ErrReasonRequiredForExpiredUse
		}
		if len(nonExpired) == 0 {
			warnings = append(warnings, "Todos los lotes disponibles se encuentran vencidos")
		} else {
			warnings = append(warnings, "Se utilizaron lotes vencidos para completar la salida")
		}
		appendPool(nonExpired, false)
		appendPool(expired, true)
	} else {
		appendPool(nonExpired, false)
	}

	remaining := req.RequestedQty
	usedExpired := false
	var allocations []FIFOAllocation

	for _, candidate := range pool {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, candidate.Qty)
		candidate.Qty = take
		allocations = append(allocations, candidate)
		if candidate.Expired {
			usedExpired = true
		}
		remaining = remaining.Sub(take)
	}
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}

	return FIFOResult{
		Allocations:  allocations,
		FulfilledQty: req.RequestedQty.Sub(remaining),
		MissingQty:   remaining,
		UsedExpired:  usedExpired,
		Warnings:     warnings,
	}, nil
}

func sortLots(lots []FIFOLot) {
	sort.Slice(lots, func(i, j int) bool {
		a, b := entity.DateOnly(lots[i].ExpiresAt), entity.DateOnly(lots[j].ExpiresAt)
		if !a.Equal(b) {
			return a.Before(b)
		}
		return lots[i].LotCode < lots[j].LotCode
	})
}
