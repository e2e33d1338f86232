// Package memory implementa los puertos de persistencia en memoria (modo dev/demo y tests).
// Las transacciones se serializan completas: Run trabaja sobre una copia del estado y solo
// la publica si fn no devuelve error, de modo que un fallo no deja rastro.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// state tablas en memoria. Las líneas/ítems hijos viven en mapas aparte, por ID de cabecera.
type state struct {
	seq map[string]int64

	items         map[int64]entity.Item
	pos           map[int64]entity.PurchaseOrder
	poLines       map[int64][]entity.PurchaseOrderLine
	mrs           map[int64]entity.MaterialReceipt
	mrLines       map[int64][]entity.MaterialReceiptLine
	inspections   map[int64]entity.QualityInspection
	qiLines       map[int64][]entity.QualityInspectionLine
	gatePasses    map[int64]entity.GatePass
	gpItems       map[int64][]entity.GatePassItem
	stores        map[int64]entity.Store
	bins          map[int64]entity.Bin
	inventory     map[int64]entity.InventoryItem
	txns          []entity.InventoryTransaction
	dispatches    map[int64]entity.MaterialDispatch
	dispatchLines map[int64][]entity.MaterialDispatchLine
}

func newState() *state {
	return &state{
		seq:           map[string]int64{},
		items:         map[int64]entity.Item{},
		pos:           map[int64]entity.PurchaseOrder{},
		poLines:       map[int64][]entity.PurchaseOrderLine{},
		mrs:           map[int64]entity.MaterialReceipt{},
		mrLines:       map[int64][]entity.MaterialReceiptLine{},
		inspections:   map[int64]entity.QualityInspection{},
		qiLines:       map[int64][]entity.QualityInspectionLine{},
		gatePasses:    map[int64]entity.GatePass{},
		gpItems:       map[int64][]entity.GatePassItem{},
		stores:        map[int64]entity.Store{},
		bins:          map[int64]entity.Bin{},
		inventory:     map[int64]entity.InventoryItem{},
		dispatches:    map[int64]entity.MaterialDispatch{},
		dispatchLines: map[int64][]entity.MaterialDispatchLine{},
	}
}

func (s *state) clone() *state {
	return &state{
		seq:           maps.Clone(s.seq),
		items:         maps.Clone(s.items),
		pos:           maps.Clone(s.pos),
		poLines:       cloneChildren(s.poLines),
		mrs:           maps.Clone(s.mrs),
		mrLines:       cloneChildren(s.mrLines),
		inspections:   maps.Clone(s.inspections),
		qiLines:       cloneChildren(s.qiLines),
		gatePasses:    maps.Clone(s.gatePasses),
		gpItems:       cloneChildren(s.gpItems),
		stores:        maps.Clone(s.stores),
		bins:          maps.Clone(s.bins),
		inventory:     maps.Clone(s.inventory),
		txns:          append([]entity.InventoryTransaction(nil), s.txns...),
		dispatches:    maps.Clone(s.dispatches),
		dispatchLines: cloneChildren(s.dispatchLines),
	}
}

func cloneChildren[V any](m map[int64][]V) map[int64][]V {
	out := make(map[int64][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}

// next devuelve el siguiente ID de la tabla (secuencia tipo BIGSERIAL).
func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// db da acceso al estado: dentro de una transacción es la copia de trabajo, fuera de ella
// el estado publicado protegido por el Store.
type db struct {
	view   func(fn func(st *state))
	update func(fn func(st *state) error) error
}

// Store base de datos en memoria.
type Store struct {
	txMu sync.Mutex // serializa transacciones y escrituras
	mu   sync.RWMutex
	cur  *state
}

// NewStore crea una base de datos vacía.
func NewStore() *Store {
	return &Store{cur: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado; publica la copia solo si fn
// termina sin error (Commit) y la descarta en otro caso (Rollback).
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.cur.clone()
	s.mu.RUnlock()

	d := db{
		view:   func(f func(st *state)) { f(work) },
		update: func(f func(st *state) error) error { return f(work) },
	}
	if err := fn(newRepos(d)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = work
	s.mu.Unlock()
	return nil
}

// Repos devuelve repositorios fuera de transacción (lecturas y escrituras de una sola fila).
func (s *Store) Repos() repository.Repos {
	d := db{
		view: func(f func(st *state)) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			f(s.cur)
		},
		update: func(f func(st *state) error) error {
			s.txMu.Lock()
			defer s.txMu.Unlock()
			s.mu.Lock()
			defer s.mu.Unlock()
			return f(s.cur)
		},
	}
	return newRepos(d)
}

func newRepos(d db) repository.Repos {
	return repository.Repos{
		Items:            &ItemRepo{d},
		PurchaseOrders:   &PurchaseOrderRepo{d},
		MaterialReceipts: &MaterialReceiptRepo{d},
		Inspections:      &QualityInspectionRepo{d},
		GatePasses:       &GatePassRepo{d},
		Stores:           &StoreRepo{d},
		Inventory:        &InventoryItemRepo{d},
		Transactions:     &InventoryTransactionRepo{d},
		Dispatches:       &MaterialDispatchRepo{d},
	}
}

func paginate[T any](list []T, p repository.Page) []T {
	if p.Offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return list[p.Offset:end]
}

func sortedIDs[V any](m map[int64]V, desc bool) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if desc {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})
	return ids
}
