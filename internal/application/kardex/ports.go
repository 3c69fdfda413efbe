package kardex

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRepos repositorios atados a la transacción en curso.
type TxRepos struct {
	Movements  repository.KardexMovementRepository
	Stock      repository.StockBalanceRepository
	Items      repository.ItemRepository
	Lots       repository.LotRepository
	WorkOrders repository.WorkOrderRepository
}

// TxRunner ejecuta fn dentro de una transacción bajo exclusión mutua por
// empresa: la secuencia "chequear no-negativo, luego aplicar" del motor es
// atómica frente a otras creaciones o aprobaciones de la misma empresa.
// Dos decisiones compitiendo por el mismo movimiento se serializan aquí y
// exactamente una gana la transición PENDING→terminal.
type TxRunner interface {
	Run(ctx context.Context, companyID string, fn func(repos TxRepos) error) error
}

// KardexReportData datos ya resueltos para el reporte kardex (solo lectura).
type KardexReportData struct {
	Company   *entity.Company
	Movements []entity.KardexMovement
	Items     map[string]entity.Item
	Locations map[string]entity.Location
	Lots      map[string]entity.Lot
	From      *time.Time
	To        *time.Time
}

// KardexPDFGenerator formateador externo del reporte kardex. Lee movimientos
// y saldos, nunca los escribe.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, data KardexReportData) ([]byte, error)
}
