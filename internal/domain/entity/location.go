package entity

// Location ubicación física dentro de la bodega (estante, zona, patio).
type Location struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Zone      string
}
