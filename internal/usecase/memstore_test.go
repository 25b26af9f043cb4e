package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
)

// =====================
// in-memory TxManager
// =====================

// memStateは1トランザクション分のデータ
type memState struct {
	seq       int64
	orders    map[int64]model.Order
	items     map[int64]model.OrderItem
	products  map[int64]model.Product
	discounts map[int64]model.ProductDiscount
	users     map[int64]model.User
	addresses map[int64]model.Address
	audits    []model.AuditLog
}

func newMemState() *memState {
	return &memState{
		orders:    map[int64]model.Order{},
		items:     map[int64]model.OrderItem{},
		products:  map[int64]model.Product{},
		discounts: map[int64]model.ProductDiscount{},
		users:     map[int64]model.User{},
		addresses: map[int64]model.Address{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.seq = s.seq
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.discounts {
		c.discounts[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.addresses {
		c.addresses[k] = v
	}
	c.audits = append([]model.AuditLog{}, s.audits...)
	return c
}

func (s *memState) nextID() int64 {
	s.seq++
	return s.seq
}

// memDBはWithinTxをmutexで直列化し、コピーに対して処理してから成功時だけ差し替える。
// SELECT ... FOR UPDATE と rollback の代わり。
type memDB struct {
	mu sync.Mutex
	st *memState

	logMu sync.Mutex
	calls []string

	// ユーザー行を読んだ直後に呼ばれる。読み取りと書き込みの間に割り込む別の更新を再現する
	afterUserRead func(s *memState, id int64)
}

func (db *memDB) record(format string, args ...interface{}) {
	db.logMu.Lock()
	defer db.logMu.Unlock()
	db.calls = append(db.calls, fmt.Sprintf(format, args...))
}

func (db *memDB) callLog() []string {
	db.logMu.Lock()
	defer db.logMu.Unlock()
	return append([]string{}, db.calls...)
}

func (db *memDB) resetCalls() {
	db.logMu.Lock()
	defer db.logMu.Unlock()
	db.calls = nil
}

func newMemDB() *memDB {
	return &memDB{st: newMemState()}
}

func (db *memDB) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	work := db.st.clone()
	if err := fn(&memRepos{db: db, st: work, lockedProducts: map[int64]bool{}}); err != nil {
		return err
	}
	db.st = work
	return nil
}

// トランザクション外から見るとき用
func (db *memDB) repos() *memRepos { return &memRepos{db: db} }

func (db *memDB) snapshot() *memState {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.st.clone()
}

type memRepos struct {
	db *memDB
	st *memState
	// このトランザクションでロック済みの商品
	lockedProducts map[int64]bool
}

func (r *memRepos) state() *memState {
	if r.st != nil {
		return r.st
	}
	return r.db.st
}

func (r *memRepos) Orders() repo.OrderRepository              { return memOrders{r} }
func (r *memRepos) OrderItems() repo.OrderItemRepository      { return memOrderItems{r} }
func (r *memRepos) Products() repo.ProductRepository          { return memProducts{r} }
func (r *memRepos) Discounts() repo.ProductDiscountRepository { return memDiscounts{r} }
func (r *memRepos) Users() repo.UserRepository                { return memUsers{r} }
func (r *memRepos) Addresses() repo.AddressRepository         { return memAddresses{r} }
func (r *memRepos) AuditLogs() repo.AuditLogRepository        { return memAudits{r} }

func page[T any](list []T, q repo.ListQuery) []T {
	start := q.Offset()
	if start > len(list) {
		return []T{}
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// =====================
// orders
// =====================

type memOrders struct{ r *memRepos }

func (m memOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	o, ok := m.r.state().orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (m memOrders) FindByIDForUpdate(ctx context.Context, id int64) (model.Order, error) {
	return m.FindByID(ctx, id)
}

func (m memOrders) ListByUserID(ctx context.Context, userID int64, q repo.ListQuery) ([]model.Order, int64, error) {
	var list []model.Order
	for _, o := range m.r.state().orders {
		if o.UserID == userID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return page(list, q), int64(len(list)), nil
}

func (m memOrders) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]repo.OrderSummary, int64, error) {
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPaid}
	}
	want := map[model.OrderStatus]bool{}
	for _, s := range statuses {
		want[s] = true
	}

	var list []repo.OrderSummary
	for _, o := range m.r.state().orders {
		if !want[o.Status] {
			continue
		}
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		u := m.r.state().users[o.UserID]
		if f.Search != "" && !strings.Contains(u.FirstName+" "+u.LastName, f.Search) {
			continue
		}
		list = append(list, repo.OrderSummary{Order: o, FirstName: u.FirstName, LastName: u.LastName})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return page(list, f.ListQuery), int64(len(list)), nil
}

func (m memOrders) Create(ctx context.Context, o model.Order) (int64, error) {
	s := m.r.state()
	o.ID = s.nextID()
	s.orders[o.ID] = o
	return o.ID, nil
}

func (m memOrders) update(id int64, fn func(o *model.Order)) error {
	s := m.r.state()
	o, ok := s.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(&o)
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	return nil
}

func (m memOrders) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	return m.update(id, func(o *model.Order) { o.Status = status })
}

func (m memOrders) UpdateShippingAddress(ctx context.Context, id int64, addr model.ShippingAddress) error {
	return m.update(id, func(o *model.Order) { o.ShippingAddress = addr })
}

func (m memOrders) UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error {
	m.r.db.record("orders.total:%d", id)
	return m.update(id, func(o *model.Order) { o.TotalAmount = total })
}

// =====================
// order items
// =====================

type memOrderItems struct{ r *memRepos }

func (m memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	m.r.db.record("items.insert:%d", orderID)
	s := m.r.state()
	for _, it := range items {
		it.ID = s.nextID()
		it.OrderID = orderID
		s.items[it.ID] = it
	}
	return nil
}

func (m memOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	list := []model.OrderItem{}
	for _, it := range m.r.state().items {
		if it.OrderID == orderID {
			list = append(list, it)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m memOrderItems) DeleteByOrderID(ctx context.Context, orderID int64) error {
	s := m.r.state()
	for id, it := range s.items {
		if it.OrderID == orderID {
			delete(s.items, id)
		}
	}
	return nil
}

func (m memOrderItems) SumTotalByOrderID(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, it := range m.r.state().items {
		if it.OrderID == orderID {
			sum = sum.Add(it.Total)
		}
	}
	return sum, nil
}

// =====================
// products
// =====================

type memProducts struct{ r *memRepos }

func (m memProducts) ListActive(ctx context.Context, q repo.ListQuery) ([]model.Product, int64, error) {
	var list []model.Product
	for _, p := range m.r.state().products {
		if p.IsActive && strings.Contains(p.Name, q.Search) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return page(list, q), int64(len(list)), nil
}

func (m memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := m.r.state().products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (m memProducts) LockByID(ctx context.Context, id int64) (model.Product, error) {
	m.r.db.record("products.lock:%d", id)
	if m.r.lockedProducts != nil {
		m.r.lockedProducts[id] = true
	}
	return m.FindByID(ctx, id)
}

func (m memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	s := m.r.state()
	p.ID = s.nextID()
	s.products[p.ID] = p
	return p, nil
}

func (m memProducts) Update(ctx context.Context, p model.Product) error {
	s := m.r.state()
	if _, ok := s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	s.products[p.ID] = p
	return nil
}

func (m memProducts) SoftDelete(ctx context.Context, id int64) error {
	s := m.r.state()
	if _, ok := s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// =====================
// discounts
// =====================

type memDiscounts struct{ r *memRepos }

func (m memDiscounts) ListActive(ctx context.Context, q repo.ListQuery) ([]model.ProductDiscount, int64, error) {
	var list []model.ProductDiscount
	for _, d := range m.r.state().discounts {
		if d.IsActive {
			list = append(list, d)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return page(list, q), int64(len(list)), nil
}

func (m memDiscounts) FindActiveByID(ctx context.Context, id int64) (model.ProductDiscount, error) {
	d, ok := m.r.state().discounts[id]
	if !ok || !d.IsActive {
		return model.ProductDiscount{}, repo.ErrNotFound
	}
	return d, nil
}

func (m memDiscounts) ListActiveByProductID(ctx context.Context, productID, excludeID int64) ([]model.ProductDiscount, error) {
	m.r.db.record("discounts.byProduct:%d", productID)
	// トランザクション内では商品行のロックが先
	if m.r.st != nil && !m.r.lockedProducts[productID] {
		return nil, fmt.Errorf("product %d is not locked in this transaction", productID)
	}
	list := []model.ProductDiscount{}
	for _, d := range m.r.state().discounts {
		if d.ProductID == productID && d.IsActive && d.ID != excludeID {
			list = append(list, d)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartAt.Before(list[j].StartAt) })
	return list, nil
}

func (m memDiscounts) Create(ctx context.Context, d model.ProductDiscount) (model.ProductDiscount, error) {
	s := m.r.state()
	d.ID = s.nextID()
	s.discounts[d.ID] = d
	return d, nil
}

func (m memDiscounts) Update(ctx context.Context, d model.ProductDiscount) error {
	s := m.r.state()
	cur, ok := s.discounts[d.ID]
	if !ok || !cur.IsActive {
		return repo.ErrNotFound
	}
	d.IsActive = true
	s.discounts[d.ID] = d
	return nil
}

func (m memDiscounts) Deactivate(ctx context.Context, id int64) error {
	s := m.r.state()
	d, ok := s.discounts[id]
	if !ok || !d.IsActive {
		return repo.ErrNotFound
	}
	d.IsActive = false
	s.discounts[id] = d
	return nil
}

// =====================
// users
// =====================

type memUsers struct{ r *memRepos }

func (m memUsers) Create(ctx context.Context, u *model.User) error {
	s := m.r.state()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repo.ErrConflict
		}
	}
	u.ID = s.nextID()
	s.users[u.ID] = *u
	return nil
}

func (m memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := m.r.state().users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (m memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.r.state().users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m memUsers) ListActive(ctx context.Context, q repo.ListQuery) ([]model.User, int64, error) {
	var list []model.User
	for _, u := range m.r.state().users {
		if u.IsActive {
			list = append(list, u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return page(list, q), int64(len(list)), nil
}

func (m memUsers) FindByIDForUpdate(ctx context.Context, id int64) (*model.User, error) {
	m.r.db.record("users.lock:%d", id)
	u, err := m.FindByID(ctx, id)
	if err == nil && m.r.db.afterUserRead != nil {
		m.r.db.afterUserRead(m.r.state(), id)
	}
	return u, err
}

// 指定列だけ書く（gormのSelect+Updatesと同じ）
func (m memUsers) Update(ctx context.Context, u *model.User, columns ...string) error {
	if len(columns) == 0 {
		return errors.New("update user: no columns")
	}
	m.r.db.record("users.update:%s", strings.Join(columns, ","))

	s := m.r.state()
	cur, ok := s.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for _, c := range columns {
		switch c {
		case "email":
			cur.Email = u.Email
		case "first_name":
			cur.FirstName = u.FirstName
		case "last_name":
			cur.LastName = u.LastName
		case "tel":
			cur.Tel = u.Tel
		case "role":
			cur.Role = u.Role
		case "password_hash":
			cur.PasswordHash = u.PasswordHash
		case "is_active":
			cur.IsActive = u.IsActive
		case "last_login_at":
			cur.LastLoginAt = u.LastLoginAt
		default:
			return fmt.Errorf("update user: unknown column %q", c)
		}
	}
	s.users[u.ID] = cur
	return nil
}

func (m memUsers) IncrementTokenVersion(ctx context.Context, id int64) error {
	s := m.r.state()
	u, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.TokenVersion++
	s.users[id] = u
	return nil
}

// =====================
// addresses
// =====================

type memAddresses struct{ r *memRepos }

func (m memAddresses) Create(ctx context.Context, a model.Address) (model.Address, error) {
	s := m.r.state()
	a.ID = s.nextID()
	s.addresses[a.ID] = a
	return a, nil
}

func (m memAddresses) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	list := []model.Address{}
	for _, a := range m.r.state().addresses {
		if a.UserID == userID {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m memAddresses) FindByID(ctx context.Context, id int64) (model.Address, error) {
	a, ok := m.r.state().addresses[id]
	if !ok {
		return model.Address{}, repo.ErrNotFound
	}
	return a, nil
}

func (m memAddresses) FindDefaultByUserID(ctx context.Context, userID int64) (model.Address, error) {
	for _, a := range m.r.state().addresses {
		if a.UserID == userID && a.IsDefault {
			return a, nil
		}
	}
	return model.Address{}, repo.ErrNotFound
}

func (m memAddresses) Update(ctx context.Context, a model.Address) error {
	s := m.r.state()
	if _, ok := s.addresses[a.ID]; !ok {
		return repo.ErrNotFound
	}
	s.addresses[a.ID] = a
	return nil
}

func (m memAddresses) Delete(ctx context.Context, id int64) error {
	s := m.r.state()
	if _, ok := s.addresses[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.addresses, id)
	return nil
}

func (m memAddresses) SetDefault(ctx context.Context, userID, addressID int64) error {
	s := m.r.state()
	target, ok := s.addresses[addressID]
	if !ok || target.UserID != userID {
		return repo.ErrNotFound
	}
	for id, a := range s.addresses {
		if a.UserID == userID {
			a.IsDefault = id == addressID
			s.addresses[id] = a
		}
	}
	return nil
}

// =====================
// audit logs
// =====================

type memAudits struct{ r *memRepos }

func (m memAudits) Create(ctx context.Context, log model.AuditLog) error {
	s := m.r.state()
	log.ID = s.nextID()
	s.audits = append(s.audits, log)
	return nil
}

func (m memAudits) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	out := []model.AuditLog{}
	for _, l := range m.r.state().audits {
		if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
			continue
		}
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, f.ListQuery), int64(len(out)), nil
}
