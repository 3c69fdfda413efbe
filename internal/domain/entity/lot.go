package entity

import "time"

// Lot lote de un item con fecha de vencimiento (fecha calendario, sin hora).
// Inmutable una vez creado: no se modela fusión ni partición de lotes.
type Lot struct {
	ID        string
	CompanyID string
	ItemID    string
	LotCode   string
	QRCode    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt compara solo la fecha calendario: un lote que vence hoy NO está vencido.
func (l Lot) ExpiredAt(today time.Time) bool {
	exp := DateOnly(l.ExpiresAt)
	return exp.Before(DateOnly(today))
}

// DateOnly trunca un instante a su fecha calendario en UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
