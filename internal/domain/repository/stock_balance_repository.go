package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// StockBalanceRepository puerto de persistencia de la proyección de saldos.
// Solo el motor del kardex escribe aquí, y siempre dentro de la sección
// crítica por empresa del TxRunner.
type StockBalanceRepository interface {
	// Get devuelve el saldo de la clave exacta; si no hay fila devuelve un
	// saldo en cero (ausencia significa cero, no desconocido).
	Get(companyID, locationID, itemID, lotID string) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	Delete(companyID, locationID, itemID, lotID string) error
	// ListForAllocation saldos con lote de un item en una ubicación,
	// insumo del asignador FIFO.
	ListForAllocation(companyID, locationID, itemID string) ([]entity.StockBalance, error)
	// ListByCompany proyección completa de la empresa; locationID vacío = todas.
	ListByCompany(companyID, locationID string) ([]entity.StockBalance, error)
}
