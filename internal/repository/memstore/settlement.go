package memstore

import (
	"context"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
)

// BeginSettlement takes the store lock; it is released by Commit or
// Rollback. Callers must not use the Store's other methods while a
// transaction is open on the same goroutine.
func (s *Store) BeginSettlement(ctx context.Context) (repository.SettlementTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if err := s.faults[OpBegin]; err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return &tx{s: s}, nil
}

type tx struct {
	s    *Store
	undo []func()
	done bool
}

func (t *tx) check(op Op) error {
	if t.done {
		return ErrTxDone
	}
	return t.s.faults[op]
}

func (t *tx) DecrementStock(_ context.Context, productID int64, qty float64) (bool, error) {
	if err := t.check(OpDecrementStock); err != nil {
		return false, err
	}
	p, ok := t.s.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	before := p.Stock
	p.Stock -= qty
	t.s.products[productID] = p
	t.undo = append(t.undo, func() {
		if cur, ok := t.s.products[productID]; ok {
			cur.Stock = before
			t.s.products[productID] = cur
		}
	})
	return true, nil
}

func (t *tx) InsertOrder(_ context.Context, o *models.Order) (int64, error) {
	if err := t.check(OpInsertOrder); err != nil {
		return 0, err
	}
	t.s.nextOrder++
	o.ID = t.s.nextOrder
	o.CreatedAt = t.s.now()
	stored := *o
	stored.Items = nil
	t.s.orders = append(t.s.orders, stored)
	n := len(t.s.orders)
	t.undo = append(t.undo, func() { t.s.orders = t.s.orders[:n-1] })
	return o.ID, nil
}

func (t *tx) InsertOrderItem(_ context.Context, it models.OrderItem) error {
	if err := t.check(OpInsertOrderItem); err != nil {
		return err
	}
	for i := range t.s.orders {
		if t.s.orders[i].ID != it.OrderID {
			continue
		}
		before := t.s.orders[i].Items
		t.s.orders[i].Items = append(append([]models.OrderItem(nil), before...), it)
		idx := i
		t.undo = append(t.undo, func() { t.s.orders[idx].Items = before })
		return nil
	}
	return repository.ErrNotFound
}

func (t *tx) ClearCart(_ context.Context, userID int64) (int64, error) {
	if err := t.check(OpClearCart); err != nil {
		return 0, err
	}
	rows, ok := t.s.carts[userID]
	if !ok {
		return 0, nil
	}
	delete(t.s.carts, userID)
	t.undo = append(t.undo, func() { t.s.carts[userID] = rows })
	return int64(len(rows)), nil
}

func (t *tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	if err := t.s.faults[OpCommit]; err != nil {
		t.rollback()
		return err
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.rollback()
	return nil
}

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.done = true
	t.s.mu.Unlock()
}
