package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// CompanyRepository puerto de lectura de empresas.
type CompanyRepository interface {
	GetByID(id string) (*entity.Company, error)
}
