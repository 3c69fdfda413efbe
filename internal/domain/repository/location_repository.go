package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// LocationRepository puerto de lectura de ubicaciones de bodega.
type LocationRepository interface {
	GetByID(id string) (*entity.Location, error)
	ListByCompany(companyID string) ([]entity.Location, error)
}
