// Package memstore is an in-process implementation of the repository
// interfaces. Settlement transactions hold the store lock from begin to
// commit and undo their writes on rollback, which gives the same
// all-or-nothing behaviour as the Postgres stores.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
)

// Op names a step that can be made to fail with FailOn.
type Op string

const (
	OpBegin           Op = "begin"
	OpDecrementStock  Op = "decrement_stock"
	OpInsertOrder     Op = "insert_order"
	OpInsertOrderItem Op = "insert_order_item"
	OpClearCart       Op = "clear_cart"
	OpCommit          Op = "commit"
)

var ErrTxDone = errors.New("memstore: transaction already finished")

type cartRow struct {
	qty float64
	seq int64
}

type Store struct {
	mu sync.Mutex

	products map[int64]models.Product
	carts    map[int64]map[int64]cartRow
	orders   []models.Order
	users    map[int64]models.User

	nextProduct int64
	nextOrder   int64
	nextUser    int64
	nextSeq     int64

	faults map[Op]error
	now    func() time.Time
}

var (
	_ repository.ProductStore = (*Store)(nil)
	_ repository.CartStore    = (*Store)(nil)
	_ repository.OrderStore   = (*Store)(nil)
	_ repository.UserStore    = (*Store)(nil)
	_ repository.Settlements  = (*Store)(nil)
)

func New() *Store {
	return &Store{
		products: make(map[int64]models.Product),
		carts:    make(map[int64]map[int64]cartRow),
		users:    make(map[int64]models.User),
		faults:   make(map[Op]error),
		now:      time.Now,
	}
}

// FailOn makes every later call of op return err until ClearFaults.
func (s *Store) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[Op]error)
}

// Snapshot is a copy of the observable state, for comparisons in tests.
type Snapshot struct {
	Products map[int64]models.Product
	Carts    map[int64]map[int64]float64
	Orders   []models.Order
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Products: make(map[int64]models.Product, len(s.products)),
		Carts:    make(map[int64]map[int64]float64, len(s.carts)),
		Orders:   make([]models.Order, len(s.orders)),
	}
	for id, p := range s.products {
		snap.Products[id] = p
	}
	for uid, rows := range s.carts {
		m := make(map[int64]float64, len(rows))
		for pid, r := range rows {
			m[pid] = r.qty
		}
		snap.Carts[uid] = m
	}
	copy(snap.Orders, s.orders)
	return snap
}

// Products

func (s *Store) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, f models.ProductFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []models.Product{}
	for _, p := range s.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, p *models.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProduct++
	p.ID = s.nextProduct
	s.products[p.ID] = *p
	return p.ID, nil
}

func (s *Store) UpdateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.products[p.ID] = *p
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// Cart

func (s *Store) ListCart(_ context.Context, userID int64, loc models.Location) ([]models.CartLine, error) {
	if !loc.Valid() {
		return nil, models.ErrUnknownLocation
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	type seqLine struct {
		seq  int64
		line models.CartLine
	}
	var rows []seqLine
	for pid, r := range s.carts[userID] {
		l := models.CartLine{ProductID: pid, Quantity: r.qty}
		if p, ok := s.products[pid]; ok {
			l.Name = p.Name
			l.PricePerUnit = p.PricePerUnit
			l.UnitType = p.UnitType
			l.Stock = p.Stock
			l.Available = p.Availability.At(loc)
			l.ImagePath = p.ImagePath
		} else {
			l.Missing = true
			l.UnitType = models.UnitKg
		}
		rows = append(rows, seqLine{seq: r.seq, line: l})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	lines := make([]models.CartLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.line)
	}
	return lines, nil
}

func (s *Store) AddToCart(_ context.Context, userID, productID int64, qty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.carts[userID]
	if rows == nil {
		rows = make(map[int64]cartRow)
		s.carts[userID] = rows
	}
	if r, ok := rows[productID]; ok {
		r.qty += qty
		rows[productID] = r
		return nil
	}
	s.nextSeq++
	rows[productID] = cartRow{qty: qty, seq: s.nextSeq}
	return nil
}

func (s *Store) SetCartQuantity(_ context.Context, userID, productID int64, qty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.carts[userID][productID]
	if !ok {
		return repository.ErrNotFound
	}
	r.qty = qty
	s.carts[userID][productID] = r
	return nil
}

func (s *Store) RemoveFromCart(_ context.Context, userID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts[userID], productID)
	if len(s.carts[userID]) == 0 {
		delete(s.carts, userID)
	}
	return nil
}

func (s *Store) CountCart(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts[userID]), nil
}

// Orders

func (s *Store) ListOrders(_ context.Context, userID int64) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		if o.UserID != userID {
			continue
		}
		items := make([]models.OrderItem, len(o.Items))
		for j, it := range o.Items {
			if p, ok := s.products[it.ProductID]; ok {
				it.ProductName = p.Name
			}
			items[j] = it
		}
		o.Items = items
		out = append(out, o)
	}
	return out, nil
}

// Users

func (s *Store) CreateUser(_ context.Context, u *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return 0, repository.ErrConflict
		}
	}
	s.nextUser++
	u.ID = s.nextUser
	s.users[u.ID] = *u
	return u.ID, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *Store) GetUserByToken(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return s.findUser(func(u models.User) bool { return u.AuthToken == token })
}

func (s *Store) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) SetAuthToken(_ context.Context, userID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.AuthToken = token
	s.users[userID] = u
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, userID int64, username string, loc models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range s.users {
		if id != userID && other.Username == username {
			return repository.ErrConflict
		}
	}
	u.Username = username
	u.Location = loc
	s.users[userID] = u
	return nil
}
