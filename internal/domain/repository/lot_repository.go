package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// LotRepository puerto de lectura de lotes.
type LotRepository interface {
	GetByID(id string) (*entity.Lot, error)
	ListByItem(itemID string) ([]entity.Lot, error)
	// ListExpiring lotes de la empresa que vencen en o antes de la fecha límite.
	ListExpiring(companyID string, before time.Time) ([]entity.Lot, error)
}
