// Package memory implementa los adaptadores de persistencia en memoria:
// respaldo de los tests de aplicación y del modo standalone (sin PostgreSQL).
// Reproduce el contrato de concurrencia del adaptador pgx: exclusión por
// clave (producto, bodega) durante "leer -> validar -> escribir -> anexar
// movimiento" y atomicidad todo-o-nada por transacción.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
)

type balanceKey struct {
	warehouseID string
	productID   string
}

// Store es el estado compartido: saldos, movimientos, transacciones y
// catálogo. mu protege los mapas; keyLocks da la sección crítica por clave.
type Store struct {
	mu       sync.Mutex
	keyLocks map[balanceKey]*sync.Mutex

	balances     map[balanceKey]entity.StockBalance
	movements    []*entity.MovementRecord
	movementByID map[int64]*entity.MovementRecord
	movementSeq  int64

	transactions map[string]*entity.StockTransaction

	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	companies  map[string]*entity.Company
	users      map[string]*entity.User
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		keyLocks:     make(map[balanceKey]*sync.Mutex),
		balances:     make(map[balanceKey]entity.StockBalance),
		movementByID: make(map[int64]*entity.MovementRecord),
		transactions: make(map[string]*entity.StockTransaction),
		products:     make(map[string]*entity.Product),
		warehouses:   make(map[string]*entity.Warehouse),
		companies:    make(map[string]*entity.Company),
		users:        make(map[string]*entity.User),
	}
}

// keyLock devuelve (creando si hace falta) el mutex de una clave.
func (s *Store) keyLock(k balanceKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keyLocks[k]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[k] = l
	}
	return l
}

// txCancel operación diferida de anulación de transacción de venta.
type txCancel struct {
	id          string
	cancelledBy string
	at          time.Time
}

// Tx acumula escrituras en staging y las publica al confirmar. Los bloqueos
// por clave se toman en GetForUpdate y se liberan al confirmar o revertir:
// un delta rechazado deja el saldo comprobablemente intacto.
type Tx struct {
	store *Store

	heldOrder []balanceKey
	held      map[balanceKey]bool

	stagedBalances map[balanceKey]entity.StockBalance
	stagedMovs     []*entity.MovementRecord
	stagedTxs      []*entity.StockTransaction
	stagedLines    []*entity.TransactionLine
	stagedCancels  []txCancel
	stagedCosts    map[string]decimal.Decimal
}

func (s *Store) begin() *Tx {
	return &Tx{
		store:          s,
		held:           make(map[balanceKey]bool),
		stagedBalances: make(map[balanceKey]entity.StockBalance),
		stagedCosts:    make(map[string]decimal.Decimal),
	}
}

// lockKey toma la sección crítica de la clave si esta transacción aún no la
// tiene. Los callers deben bloquear en orden ascendente (bodega, producto).
func (t *Tx) lockKey(k balanceKey) {
	if t.held[k] {
		return
	}
	t.store.keyLock(k).Lock()
	t.held[k] = true
	t.heldOrder = append(t.heldOrder, k)
}

func (t *Tx) releaseLocks() {
	for i := len(t.heldOrder) - 1; i >= 0; i-- {
		t.store.keyLock(t.heldOrder[i]).Unlock()
	}
	t.heldOrder = nil
	t.held = make(map[balanceKey]bool)
}

// commit publica el staging bajo el lock del Store: ids de movimiento
// monotónicos asignados aquí, saldos y cabeceras en una sola sección.
//
// Las anulaciones diferidas se validan contra el estado confirmado antes de
// publicar nada: si otra transacción ya anuló la venta, todo el staging se
// descarta y el caller recibe ErrAlreadyCancelled. Es el equivalente del
// UPDATE condicional por estado del adaptador pgx — dos anulaciones en
// carrera jamás compensan dos veces.
func (t *Tx) commit() error {
	s := t.store
	s.mu.Lock()
	for _, c := range t.stagedCancels {
		tr, ok := s.transactions[c.id]
		if !ok || tr.Status != entity.TransactionStatusCompleted {
			s.mu.Unlock()
			t.rollback()
			return domain.ErrAlreadyCancelled
		}
	}
	for k, b := range t.stagedBalances {
		s.balances[k] = b
	}
	for _, m := range t.stagedMovs {
		s.movementSeq++
		m.ID = s.movementSeq
		s.movements = append(s.movements, m)
		s.movementByID[m.ID] = m
	}
	for _, tr := range t.stagedTxs {
		s.transactions[tr.ID] = tr
	}
	for _, l := range t.stagedLines {
		if tr, ok := s.transactions[l.TransactionID]; ok {
			tr.Lines = append(tr.Lines, *l)
		}
	}
	for _, c := range t.stagedCancels {
		if tr, ok := s.transactions[c.id]; ok {
			tr.Status = entity.TransactionStatusCancelled
			at := c.at
			tr.CancelledAt = &at
			tr.CancelledBy = c.cancelledBy
		}
	}
	for id, cost := range t.stagedCosts {
		if p, ok := s.products[id]; ok {
			p.Cost = cost
			p.UpdatedAt = time.Now()
		}
	}
	s.mu.Unlock()
	t.releaseLocks()
	return nil
}

// rollback descarta el staging y libera los bloqueos; nada se publicó.
func (t *Tx) rollback() {
	t.stagedBalances = nil
	t.stagedMovs = nil
	t.stagedTxs = nil
	t.stagedLines = nil
	t.stagedCancels = nil
	t.stagedCosts = nil
	t.releaseLocks()
}

// committedBalance lee el saldo confirmado (cero si no existe).
func (s *Store) committedBalance(k balanceKey) entity.StockBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.balances[k]; ok {
		return b
	}
	return entity.StockBalance{ProductID: k.productID, WarehouseID: k.warehouseID}
}

// committedMovements devuelve una copia instantánea ordenada por fecha.
func (s *Store) committedMovements() []*entity.MovementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.MovementRecord, len(s.movements))
	for i, m := range s.movements {
		cp := *m
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
