package kardex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domkardex "github.com/jhoicas/Kardex-api/internal/domain/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// CycleCountInput conteo físico sobre una clave exacta de saldo.
type CycleCountInput struct {
	CompanyID       string
	LocationID      string
	ItemID          string
	LotID           string
	CountedQty      decimal.Decimal
	Notes           string
	RequestedBy     string
	RequestedByRole string
}

// CycleCountUseCase convierte un conteo cíclico en un ajuste PENDING cuando
// la cantidad contada difiere del sistema. Si el delta es exactamente cero
// (tras redondear a la precisión fija) no se crea movimiento alguno.
type CycleCountUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	lotRepo      repository.LotRepository
	locationRepo repository.LocationRepository
}

// NewCycleCountUseCase construye el caso de uso.
func NewCycleCountUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	locationRepo repository.LocationRepository,
) *CycleCountUseCase {
	return &CycleCountUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		lotRepo:      lotRepo,
		locationRepo: locationRepo,
	}
}

// Submit compara el conteo contra el saldo actual y, si hay diferencia,
// registra un ADJUST PENDING con motivo generado por el sistema que embebe
// las cantidades antes/después. Devuelve nil sin error cuando no hay delta.
func (uc *CycleCountUseCase) Submit(ctx context.Context, in CycleCountInput) (*entity.KardexMovement, error) {
	if in.CountedQty.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != in.CompanyID {
		return nil, domain.ErrNotFound
	}
	if item.LotManaged() && in.LotID == "" {
		return nil, domain.ErrLotRequired
	}
	if !item.LotManaged() && in.LotID != "" {
		return nil, domain.ErrInvalidInput
	}
	if in.LotID != "" {
		lot, err := uc.lotRepo.GetByID(in.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil || lot.ItemID != item.ID {
			return nil, domain.ErrInvalidInput
		}
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil || location.CompanyID != in.CompanyID {
		return nil, domain.ErrNotFound
	}

	var movement *entity.KardexMovement

	err = uc.txRunner.Run(ctx, in.CompanyID, func(repos TxRepos) error {
		current, err := repos.Stock.Get(in.CompanyID, in.LocationID, in.ItemID, in.LotID)
		if err != nil {
			return err
		}

		counted := domkardex.Round(in.CountedQty)
		delta := domkardex.Round(counted.Sub(current.Quantity))
		if delta.IsZero() {
			return nil
		}

		reason := fmt.Sprintf("Conteo ciclico (%s -> %s)", current.Quantity.String(), counted.String())

		if _, err := domkardex.ValidateMovement(domkardex.ValidationInput{
			MovementType:    entity.MovementTypeADJUST,
			Status:          entity.StatusPENDING,
			Reason:          reason,
			RequestedByRole: in.RequestedByRole,
		}); err != nil {
			return err
		}

		movement = &entity.KardexMovement{
			ID:              uuid.New().String(),
			CompanyID:       in.CompanyID,
			MovementType:    entity.MovementTypeADJUST,
			Status:          entity.StatusPENDING,
			Reason:          reason,
			Notes:           strings.TrimSpace(in.Notes),
			RequestedBy:     in.RequestedBy,
			RequestedByRole: in.RequestedByRole,
			CreatedAt:       time.Now().UTC(),
			Lines: []entity.MovementLine{
				{LocationID: in.LocationID, ItemID: in.ItemID, LotID: in.LotID, DeltaQty: delta},
			},
		}
		return repos.Movements.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}
