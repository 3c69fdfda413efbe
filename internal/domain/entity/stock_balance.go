package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance saldo materializado por (empresa, ubicación, item, lote).
// Derivado del kardex: solo lo mutan los movimientos APPROVED, nunca se edita
// a mano. Cantidad siempre > 0; una fila que llega a cero se elimina del
// conjunto (ausencia significa cero). LotID vacío = item sin lote.
type StockBalance struct {
	CompanyID  string
	LocationID string
	ItemID     string
	LotID      string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
