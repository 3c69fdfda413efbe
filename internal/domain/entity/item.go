package entity

import "time"

// Item referencia de catálogo (inmutable). Un item es "manejado por lote"
// si requiere control de vencimiento o separación de stock por lote.
type Item struct {
	ID        string
	CompanyID string
	SKU       string
	Name      string
	BaseUnit  string
	Category  string
	HasExpiry bool
	ByLot     bool
	QRCode    string
	CreatedAt time.Time
}

// LotManaged indica si las existencias del item deben llevarse por lote.
func (i Item) LotManaged() bool {
	return i.HasExpiry || i.ByLot
}
