// Package memory implementa los puertos de persistencia del kardex sobre
// mapas en memoria, con exclusión mutua por empresa en el TxRunner. Sirve
// como doble de pruebas y como modo de desarrollo sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Store estado compartido. Las escrituras del motor entran siempre por Run
// (sección crítica por empresa); las lecturas sueltas usan el RWMutex.
//
// No hay rollback: los casos de uso validan todo antes de escribir, así que
// una falla posterior a la primera escritura no ocurre por construcción.
type Store struct {
	lockMu    sync.Mutex
	companyMu map[string]*sync.Mutex

	mu         sync.RWMutex
	companies  map[string]entity.Company
	items      map[string]entity.Item
	lots       map[string]entity.Lot
	locations  map[string]entity.Location
	workOrders map[string]entity.WorkOrder
	movements  map[string]entity.KardexMovement
	balances   map[kardex.StockKey]entity.StockBalance
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		companyMu:  map[string]*sync.Mutex{},
		companies:  map[string]entity.Company{},
		items:      map[string]entity.Item{},
		lots:       map[string]entity.Lot{},
		locations:  map[string]entity.Location{},
		workOrders: map[string]entity.WorkOrder{},
		movements:  map[string]entity.KardexMovement{},
		balances:   map[kardex.StockKey]entity.StockBalance{},
	}
}

var _ appkardex.TxRunner = (*Store)(nil)

// Run ejecuta fn bajo el mutex de la empresa. Serializa creaciones y
// decisiones de una misma empresa entre sí.
func (s *Store) Run(_ context.Context, companyID string, fn func(repos appkardex.TxRepos) error) error {
	s.lockMu.Lock()
	mu, ok := s.companyMu[companyID]
	if !ok {
		mu = &sync.Mutex{}
		s.companyMu[companyID] = mu
	}
	s.lockMu.Unlock()

	mu.Lock()
	defer mu.Unlock()

	return fn(appkardex.TxRepos{
		Movements:  s.Movements(),
		Stock:      s.Stock(),
		Items:      s.Items(),
		Lots:       s.Lots(),
		WorkOrders: s.WorkOrders(),
	})
}

// Accesores de repositorios (comparten el estado del Store).
func (s *Store) Movements() repository.KardexMovementRepository { return &movementRepo{s} }
func (s *Store) Stock() repository.StockBalanceRepository       { return &stockRepo{s} }
func (s *Store) Items() repository.ItemRepository               { return &itemRepo{s} }
func (s *Store) Lots() repository.LotRepository                 { return &lotRepo{s} }
func (s *Store) Locations() repository.LocationRepository       { return &locationRepo{s} }
func (s *Store) WorkOrders() repository.WorkOrderRepository     { return &workOrderRepo{s} }
func (s *Store) Companies() repository.CompanyRepository        { return &companyRepo{s} }

// ── Seed (catálogo y escenarios de prueba) ────────────────────────────────────

// PutCompany, PutItem, PutLot, PutLocation, PutWorkOrder cargan catálogo.
func (s *Store) PutCompany(c entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

func (s *Store) PutItem(i entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[i.ID] = i
}

func (s *Store) PutLot(l entity.Lot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots[l.ID] = l
}

func (s *Store) PutLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

func (s *Store) PutWorkOrder(w entity.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workOrders[w.ID] = w
}

// TamperBalance escribe un saldo directamente, saltándose el motor. Solo
// para simular deriva en pruebas de conciliación.
func (s *Store) TamperBalance(b entity.StockBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := kardex.StockKey{CompanyID: b.CompanyID, LocationID: b.LocationID, ItemID: b.ItemID, LotID: b.LotID}
	s.balances[key] = b
}

// ── Movimientos ───────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(m *entity.KardexMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.movements[m.ID]; exists {
		return domain.ErrDuplicate
	}
	stored := *m
	stored.Lines = append([]entity.MovementLine(nil), m.Lines...)
	r.s.movements[m.ID] = stored
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.KardexMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	out := m
	out.Lines = append([]entity.MovementLine(nil), m.Lines...)
	return &out, nil
}

func (r *movementRepo) UpdateDecision(id, status, approvedBy, approvedByRole string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return domain.ErrMovementNotFound
	}
	if m.Status != entity.StatusPENDING {
		return domain.ErrNotPending
	}
	m.Status = status
	m.ApprovedBy = approvedBy
	m.ApprovedByRole = approvedByRole
	r.s.movements[id] = m
	return nil
}

func (r *movementRepo) ListByCompany(companyID string, f repository.MovementFilter) ([]entity.KardexMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []entity.KardexMovement
	for _, m := range r.s.movements {
		if m.CompanyID != companyID {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		if f.LocationID != "" || f.ItemID != "" {
			matches := false
			for _, line := range m.Lines {
				if (f.LocationID == "" || line.LocationID == f.LocationID) &&
					(f.ItemID == "" || line.ItemID == f.ItemID) {
					matches = true
					break
				}
			}
			if !matches {
				continue
			}
		}
		out := m
		out.Lines = append([]entity.MovementLine(nil), m.Lines...)
		list = append(list, out)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(list) {
		list = list[:f.Limit]
	}
	return list, nil
}

func (r *movementRepo) ListPendingApprovals(companyID string) ([]entity.KardexMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []entity.KardexMovement
	for _, m := range r.s.movements {
		if m.CompanyID != companyID || m.Status != entity.StatusPENDING {
			continue
		}
		if m.MovementType != entity.MovementTypeADJUST && m.MovementType != entity.MovementTypeSCRAP {
			continue
		}
		out := m
		out.Lines = append([]entity.MovementLine(nil), m.Lines...)
		list = append(list, out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ── Saldos ────────────────────────────────────────────────────────────────────

type stockRepo struct{ s *Store }

func (r *stockRepo) Get(companyID, locationID, itemID, lotID string) (*entity.StockBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key := kardex.StockKey{CompanyID: companyID, LocationID: locationID, ItemID: itemID, LotID: lotID}
	if b, ok := r.s.balances[key]; ok {
		out := b
		return &out, nil
	}
	return &entity.StockBalance{CompanyID: companyID, LocationID: locationID, ItemID: itemID, LotID: lotID}, nil
}

func (r *stockRepo) Upsert(b *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := kardex.StockKey{CompanyID: b.CompanyID, LocationID: b.LocationID, ItemID: b.ItemID, LotID: b.LotID}
	r.s.balances[key] = *b
	return nil
}

func (r *stockRepo) Delete(companyID, locationID, itemID, lotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.balances, kardex.StockKey{CompanyID: companyID, LocationID: locationID, ItemID: itemID, LotID: lotID})
	return nil
}

func (r *stockRepo) ListForAllocation(companyID, locationID, itemID string) ([]entity.StockBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.StockBalance
	for key, b := range r.s.balances {
		if key.CompanyID == companyID && key.LocationID == locationID && key.ItemID == itemID && key.LotID != "" {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LotID < list[j].LotID })
	return list, nil
}

func (r *stockRepo) ListByCompany(companyID, locationID string) ([]entity.StockBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.StockBalance
	for key, b := range r.s.balances {
		if key.CompanyID != companyID {
			continue
		}
		if locationID != "" && key.LocationID != locationID {
			continue
		}
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].LocationID != list[j].LocationID {
			return list[i].LocationID < list[j].LocationID
		}
		if list[i].ItemID != list[j].ItemID {
			return list[i].ItemID < list[j].ItemID
		}
		return list[i].LotID < list[j].LotID
	})
	return list, nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

type itemRepo struct{ s *Store }

func (r *itemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i, ok := r.s.items[id]; ok {
		out := i
		return &out, nil
	}
	return nil, nil
}

func (r *itemRepo) ListByCompany(companyID string) ([]entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Item
	for _, i := range r.s.items {
		if i.CompanyID == companyID {
			list = append(list, i)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return list, nil
}

type lotRepo struct{ s *Store }

func (r *lotRepo) GetByID(id string) (*entity.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.lots[id]; ok {
		out := l
		return &out, nil
	}
	return nil, nil
}

func (r *lotRepo) ListByItem(itemID string) ([]entity.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Lot
	for _, l := range r.s.lots {
		if l.ItemID == itemID {
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LotCode < list[j].LotCode })
	return list, nil
}

func (r *lotRepo) ListExpiring(companyID string, before time.Time) ([]entity.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Lot
	for _, l := range r.s.lots {
		if l.CompanyID != companyID {
			continue
		}
		if !entity.DateOnly(l.ExpiresAt).After(entity.DateOnly(before)) {
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ExpiresAt.Equal(list[j].ExpiresAt) {
			return list[i].ExpiresAt.Before(list[j].ExpiresAt)
		}
		return list[i].LotCode < list[j].LotCode
	})
	return list, nil
}

type locationRepo struct{ s *Store }

func (r *locationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.locations[id]; ok {
		out := l
		return &out, nil
	}
	return nil, nil
}

func (r *locationRepo) ListByCompany(companyID string) ([]entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Location
	for _, l := range r.s.locations {
		if l.CompanyID == companyID {
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

type workOrderRepo struct{ s *Store }

func (r *workOrderRepo) Create(w *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.workOrders[w.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.workOrders[w.ID] = *w
	return nil
}

func (r *workOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if w, ok := r.s.workOrders[id]; ok {
		out := w
		return &out, nil
	}
	return nil, nil
}

func (r *workOrderRepo) ListByCompany(companyID string) ([]entity.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.WorkOrder
	for _, w := range r.s.workOrders {
		if w.CompanyID == companyID {
			list = append(list, w)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

func (r *workOrderRepo) CountByCodePrefix(companyID, prefix string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, w := range r.s.workOrders {
		if w.CompanyID == companyID && strings.HasPrefix(w.Code, prefix) {
			count++
		}
	}
	return count, nil
}

type companyRepo struct{ s *Store }

func (r *companyRepo) GetByID(id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.companies[id]; ok {
		out := c
		return &out, nil
	}
	return nil, nil
}
