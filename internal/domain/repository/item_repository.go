package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// ItemRepository puerto de lectura del catálogo de items (referencia inmutable).
type ItemRepository interface {
	GetByID(id string) (*entity.Item, error)
	ListByCompany(companyID string) ([]entity.Item, error)
}
