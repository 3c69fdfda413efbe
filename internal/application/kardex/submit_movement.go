package kardex

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domkardex "github.com/jhoicas/Kardex-api/internal/domain/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// MovementDraft borrador de movimiento, validado una sola vez en el borde.
// LotID "AUTO" o vacío significa sin lote explícito; AutoFIFO habilita la
// asignación automática para items con lote en OUT_OT/TRANSFER/SCRAP.
type MovementDraft struct {
	CompanyID       string
	MovementType    string
	QRRaw           string
	Quantity        decimal.Decimal
	LocationFromID  string
	LocationToID    string
	LotID           string
	AutoFIFO        bool
	AllowExpired    bool
	Reason          string
	Notes           string
	RequestedBy     string
	RequestedByRole string
	WorkOrderID     string
	AdjustDirection string
}

// SubmitMovementUseCase motor del kardex: convierte un borrador en un asiento
// inmutable con sus líneas, decide el estado inicial y aplica la proyección
// cuando el movimiento nace aprobado. Toda la escritura ocurre dentro de la
// sección crítica por empresa del TxRunner (todo-o-nada por llamada).
type SubmitMovementUseCase struct {
	txRunner      TxRunner
	itemRepo      repository.ItemRepository
	lotRepo       repository.LotRepository
	locationRepo  repository.LocationRepository
	workOrderRepo repository.WorkOrderRepository
	now           func() time.Time
}

// NewSubmitMovementUseCase construye el caso de uso.
func NewSubmitMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	locationRepo repository.LocationRepository,
	workOrderRepo repository.WorkOrderRepository,
) *SubmitMovementUseCase {
	return &SubmitMovementUseCase{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		lotRepo:       lotRepo,
		locationRepo:  locationRepo,
		workOrderRepo: workOrderRepo,
		now:           time.Now,
	}
}

// WithClock fija el reloj del caso de uso: corte de vencimiento del FIFO y
// CreatedAt del asiento. Para pruebas.
func (uc *SubmitMovementUseCase) WithClock(now func() time.Time) *SubmitMovementUseCase {
	uc.now = now
	return uc
}

// Submit valida el borrador, resuelve el QR, genera las líneas según el tipo
// (con FIFO automático si aplica), pasa el validador de reglas, re-verifica
// suficiencia de stock y confirma el asiento. Un llenado parcial del FIFO
// nunca se confirma: aborta con ErrInsufficientStock.
func (uc *SubmitMovementUseCase) Submit(ctx context.Context, draft MovementDraft) (*entity.KardexMovement, error) {
	if strings.TrimSpace(draft.QRRaw) == "" {
		return nil, domain.ErrMalformedQR
	}
	if !entity.ValidMovementType(draft.MovementType) {
		return nil, domain.ErrInvalidInput
	}
	if !draft.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if draft.MovementType == entity.MovementTypeTRANSFER {
		if draft.LocationToID == "" || draft.LocationToID == draft.LocationFromID {
			return nil, domain.ErrInvalidInput
		}
	}
	if draft.AdjustDirection != "" &&
		draft.AdjustDirection != entity.AdjustINCREMENT && draft.AdjustDirection != entity.AdjustDECREMENT {
		return nil, domain.ErrInvalidInput
	}

	ref, err := domkardex.ResolveQR(draft.QRRaw, draft.CompanyID)
	if err != nil {
		return nil, err
	}

	item, scannedLotID, err := uc.resolveScan(ref)
	if err != nil {
		return nil, err
	}

	lotID, err := uc.resolveLotContext(item, scannedLotID, draft.LotID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkLocation(draft.CompanyID, draft.LocationFromID); err != nil {
		return nil, err
	}
	if draft.MovementType == entity.MovementTypeTRANSFER {
		if err := uc.checkLocation(draft.CompanyID, draft.LocationToID); err != nil {
			return nil, err
		}
	}

	hasWorkOrder := false
	if draft.MovementType == entity.MovementTypeOUTOT && draft.WorkOrderID != "" {
		workOrder, err := uc.workOrderRepo.GetByID(draft.WorkOrderID)
		if err != nil {
			return nil, err
		}
		if workOrder == nil || workOrder.CompanyID != draft.CompanyID {
			return nil, domain.ErrNotFound
		}
		hasWorkOrder = true
	}

	status := entity.StatusAPPROVED
	if draft.MovementType == entity.MovementTypeADJUST || draft.MovementType == entity.MovementTypeSCRAP {
		status = entity.StatusPENDING
	}

	now := uc.now().UTC()
	movement := &entity.KardexMovement{
		ID:              uuid.New().String(),
		CompanyID:       draft.CompanyID,
		MovementType:    draft.MovementType,
		Status:          status,
		Reason:          strings.TrimSpace(draft.Reason),
		Notes:           strings.TrimSpace(draft.Notes),
		RequestedBy:     draft.RequestedBy,
		RequestedByRole: draft.RequestedByRole,
		WorkOrderID:     draft.WorkOrderID,
		CreatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, draft.CompanyID, func(repos TxRepos) error {
		lines, err := buildLines(repos, item, lotID, draft, now)
		if err != nil {
			return err
		}

		if _, err := domkardex.ValidateMovement(domkardex.ValidationInput{
			MovementType:    movement.MovementType,
			Status:          movement.Status,
			Reason:          movement.Reason,
			RequestedByRole: movement.RequestedByRole,
			HasWorkOrder:    hasWorkOrder,
		}); err != nil {
			return err
		}

		if err := ensureNonNegative(repos.Stock, draft.CompanyID, lines); err != nil {
			return err
		}

		movement.Lines = lines
		if err := repos.Movements.Create(movement); err != nil {
			return err
		}
		if movement.Status == entity.StatusAPPROVED {
			return applyApproved(repos.Stock, *movement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// resolveScan carga item (y lote, si el QR era LOT) verificando la empresa.
func (uc *SubmitMovementUseCase) resolveScan(ref domkardex.QRRef) (*entity.Item, string, error) {
	if ref.Kind == domkardex.QRLot {
		lot, err := uc.lotRepo.GetByID(ref.LotID)
		if err != nil {
			return nil, "", err
		}
		if lot == nil || lot.CompanyID != ref.CompanyID {
			return nil, "", domain.ErrNotFound
		}
		item, err := uc.itemRepo.GetByID(lot.ItemID)
		if err != nil {
			return nil, "", err
		}
		if item == nil {
			return nil, "", domain.ErrNotFound
		}
		return item, lot.ID, nil
	}

	item, err := uc.itemRepo.GetByID(ref.ItemID)
	if err != nil {
		return nil, "", err
	}
	if item == nil || item.CompanyID != ref.CompanyID {
		return nil, "", domain.ErrNotFound
	}
	return item, "", nil
}

// resolveLotContext decide el lote efectivo: QR LOT gana, luego el lote
// elegido en el borrador. Vacío queda en manos del motor (FIFO o ErrLotRequired).
func (uc *SubmitMovementUseCase) resolveLotContext(item *entity.Item, scannedLotID, draftLotID string) (string, error) {
	if !item.LotManaged() {
		return "", nil
	}

	candidate := scannedLotID
	if candidate == "" && draftLotID != "" && draftLotID != "AUTO" {
		candidate = draftLotID
	}
	if candidate == "" {
		return "", nil
	}

	lot, err := uc.lotRepo.GetByID(candidate)
	if err != nil {
		return "", err
	}
	if lot == nil || lot.ItemID != item.ID {
		return "", domain.ErrInvalidInput
	}
	return lot.ID, nil
}

func (uc *SubmitMovementUseCase) checkLocation(companyID, locationID string) error {
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if location == nil || location.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

// buildLines genera las líneas del movimiento según el tipo. Para items con
// lote sin lote resuelto, OUT_OT/TRANSFER/SCRAP pueden dividirse por FIFO;
// el resto de tipos exige lote explícito.
func buildLines(repos TxRepos, item *entity.Item, lotID string, draft MovementDraft, now time.Time) ([]entity.MovementLine, error) {
	qty := domkardex.Round(draft.Quantity)

	fifoEligible := draft.MovementType == entity.MovementTypeOUTOT ||
		draft.MovementType == entity.MovementTypeTRANSFER ||
		draft.MovementType == entity.MovementTypeSCRAP

	if item.LotManaged() && lotID == "" && fifoEligible {
		if !draft.AutoFIFO {
			return nil, domain.ErrLotRequired
		}
		return buildFIFOLines(repos, item, draft, qty, now)
	}

	if item.LotManaged() && lotID == "" {
		return nil, domain.ErrLotRequired
	}

	switch draft.MovementType {
	case entity.MovementTypeIN, entity.MovementTypeINITIAL:
		return []entity.MovementLine{
			{LocationID: draft.LocationFromID, ItemID: item.ID, LotID: lotID, DeltaQty: qty},
		}, nil

	case entity.MovementTypeOUTOT, entity.MovementTypeSCRAP:
		return []entity.MovementLine{
			{LocationID: draft.LocationFromID, ItemID: item.ID, LotID: lotID, DeltaQty: qty.Neg()},
		}, nil

	case entity.MovementTypeTRANSFER:
		return []entity.MovementLine{
			{LocationID: draft.LocationFromID, ItemID: item.ID, LotID: lotID, DeltaQty: qty.Neg()},
			{LocationID: draft.LocationToID, ItemID: item.ID, LotID: lotID, DeltaQty: qty},
		}, nil

	case entity.MovementTypeADJUST:
		delta := qty
		if draft.AdjustDirection == entity.AdjustDECREMENT {
			delta = qty.Neg()
		}
		return []entity.MovementLine{
			{LocationID: draft.LocationFromID, ItemID: item.ID, LotID: lotID, DeltaQty: delta},
		}, nil
	}
	return nil, domain.ErrInvalidInput
}

// buildFIFOLines consulta los saldos con lote dentro de la transacción
// (lectura consistente para la asignación) y divide la salida por lotes.
// MissingQty > 0 aborta: el llenado parcial nunca se confirma.
func buildFIFOLines(repos TxRepos, item *entity.Item, draft MovementDraft, qty decimal.Decimal, now time.Time) ([]entity.MovementLine, error) {
	rows, err := repos.Stock.ListForAllocation(draft.CompanyID, draft.LocationFromID, item.ID)
	if err != nil {
		return nil, err
	}

	candidates := make([]domkardex.FIFOLot, 0, len(rows))
	for _, row := range rows {
		if row.LotID == "" {
			continue
		}
		lot, err := repos.Lots.GetByID(row.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			continue
		}
		candidates = append(candidates, domkardex.FIFOLot{
			LotID:        lot.ID,
			ItemID:       item.ID,
			LocationID:   row.LocationID,
			LotCode:      lot.LotCode,
			ExpiresAt:    lot.ExpiresAt,
			AvailableQty: row.Quantity,
		})
	}

	result, err := domkardex.AllocateFIFO(domkardex.FIFORequest{
		ItemID:       item.ID,
		LocationID:   draft.LocationFromID,
		RequestedQty: qty,
		Lots:         candidates,
		AllowExpired: draft.AllowExpired,
		Reason:       draft.Reason,
		Today:        now,
	})
	if err != nil {
		return nil, err
	}
	if result.MissingQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInsufficientStock
	}

	lines := make([]entity.MovementLine, 0, len(result.Allocations)*2)
	for _, allocation := range result.Allocations {
		lines = append(lines, entity.MovementLine{
			LocationID: draft.LocationFromID,
			ItemID:     item.ID,
			LotID:      allocation.LotID,
			DeltaQty:   allocation.Qty.Neg(),
		})
	}
	if draft.MovementType == entity.MovementTypeTRANSFER {
		for _, allocation := range result.Allocations {
			lines = append(lines, entity.MovementLine{
				LocationID: draft.LocationToID,
				ItemID:     item.ID,
				LotID:      allocation.LotID,
				DeltaQty:   allocation.Qty,
			})
		}
	}
	return lines, nil
}
