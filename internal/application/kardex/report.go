package kardex

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ReportUseCase arma los datos del reporte kardex y delega el formato al
// generador PDF. Lectura pura sobre asientos y catálogo.
type ReportUseCase struct {
	movementRepo repository.KardexMovementRepository
	itemRepo     repository.ItemRepository
	lotRepo      repository.LotRepository
	locationRepo repository.LocationRepository
	companyRepo  repository.CompanyRepository
	generator    KardexPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	movementRepo repository.KardexMovementRepository,
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	locationRepo repository.LocationRepository,
	companyRepo repository.CompanyRepository,
	generator KardexPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		movementRepo: movementRepo,
		itemRepo:     itemRepo,
		lotRepo:      lotRepo,
		locationRepo: locationRepo,
		companyRepo:  companyRepo,
		generator:    generator,
	}
}

// GeneratePDF genera el reporte kardex (bytes PDF) para los filtros dados.
func (uc *ReportUseCase) GeneratePDF(ctx context.Context, companyID string, f repository.MovementFilter) ([]byte, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	movements, err := uc.movementRepo.ListByCompany(companyID, f)
	if err != nil {
		return nil, err
	}

	data := KardexReportData{
		Company:   company,
		Movements: movements,
		Items:     map[string]entity.Item{},
		Locations: map[string]entity.Location{},
		Lots:      map[string]entity.Lot{},
		From:      f.From,
		To:        f.To,
	}

	for _, movement := range movements {
		for _, line := range movement.Lines {
			if _, ok := data.Items[line.ItemID]; !ok {
				if item, err := uc.itemRepo.GetByID(line.ItemID); err != nil {
					return nil, err
				} else if item != nil {
					data.Items[line.ItemID] = *item
				}
			}
			if _, ok := data.Locations[line.LocationID]; !ok {
				if location, err := uc.locationRepo.GetByID(line.LocationID); err != nil {
					return nil, err
				} else if location != nil {
					data.Locations[line.LocationID] = *location
				}
			}
			if line.LotID != "" {
				if _, ok := data.Lots[line.LotID]; !ok {
					if lot, err := uc.lotRepo.GetByID(line.LotID); err != nil {
						return nil, err
					} else if lot != nil {
						data.Lots[line.LotID] = *lot
					}
				}
			}
		}
	}

	return uc.generator.GenerateKardexPDF(ctx, data)
}
