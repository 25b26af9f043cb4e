package usecase_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
	"ecadmin/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func formatInt(id int64) string { return strconv.FormatInt(id, 10) }

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind.Code(), apperr.KindOf(err).Code(), "err: %v", err)
}

// 検証は別パッケージなのでテストでは素通し
type passValidator struct{}

func (passValidator) ValidateRegister(context.Context, usecase.RegisterInput) error     { return nil }
func (passValidator) ValidateLogin(context.Context, string, string) error               { return nil }
func (passValidator) ValidateCreateUser(context.Context, usecase.CreateUserInput) error { return nil }
func (passValidator) ValidateUpdateUser(context.Context, usecase.UpdateUserInput) error { return nil }

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) OrderEvent(event, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event+":"+status)
}

// =====================
// seed
// =====================

type fixture struct {
	db     *memDB
	owner  usecase.Principal
	other  usecase.Principal
	admin  usecase.Principal
	prodA  int64
	prodB  int64
	hidden int64
	addrID int64
	events *eventRecorder
	orders *usecase.OrderUsecase
}

func seedUser(s *memState, email string, role model.Role) usecase.Principal {
	id := s.nextID()
	s.users[id] = model.User{
		ID:        id,
		Email:     email,
		FirstName: "first" + email,
		LastName:  "last",
		Role:      role,
		IsActive:  true,
	}
	return usecase.Principal{UserID: id, Role: role}
}

func seedProduct(s *memState, name string, active bool) int64 {
	id := s.nextID()
	s.products[id] = model.Product{ID: id, Name: name, Category: "tea", Price: dec("10"), IsActive: active}
	return id
}

func seedDefaultAddress(s *memState, userID int64) int64 {
	id := s.nextID()
	s.addresses[id] = model.Address{
		ID:         id,
		UserID:     userID,
		Name:       "Taro",
		PostalCode: "100-0001",
		Prefecture: "Tokyo",
		City:       "Chiyoda",
		Line1:      "1-1",
		IsDefault:  true,
	}
	return id
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newMemDB()
	f := &fixture{db: db, events: &eventRecorder{}}

	s := db.st
	f.owner = seedUser(s, "owner@example.com", model.RoleUser)
	f.other = seedUser(s, "other@example.com", model.RoleUser)
	f.admin = seedUser(s, "admin@example.com", model.RoleAdmin)
	f.prodA = seedProduct(s, "Green Tea", true)
	f.prodB = seedProduct(s, "Black Tea", true)
	f.hidden = seedProduct(s, "Hidden Tea", false)
	f.addrID = seedDefaultAddress(s, f.owner.UserID)

	f.orders = usecase.NewOrderUsecase(db, f.events)
	return f
}

func firstPage() repo.ListQuery {
	return repo.ListQuery{Page: 1, Limit: 10}
}
