package usecase_test

import (
	"context"
	"testing"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
	"ecadmin/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) createDefault(t *testing.T) usecase.OrderOutput {
	t.Helper()
	out, err := f.orders.Create(context.Background(), f.owner, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{
			{ProductID: f.prodA, Quantity: 2, Price: dec("50")},
			{ProductID: f.prodB, Quantity: 1, Price: dec("30")},
		},
		UseDefaultAddress: true,
	})
	require.NoError(t, err)
	return out
}

// 130 -> 200 -> paid -> Forbidden -> shipped -> FinalState
func TestOrderUsecase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created := f.createDefault(t)
	assert.Equal(t, model.OrderStatusPending, created.Status)
	assert.True(t, created.TotalAmount.Equal(dec("130")), "total %s", created.TotalAmount)
	assert.Len(t, created.Items, 2)
	assert.Equal(t, "Green Tea", created.Items[0].Name)
	assert.Equal(t, "Taro", created.ShippingAddress.Name)

	updated, err := f.orders.Update(ctx, f.owner, created.ID, usecase.UpdateOrderInput{
		ReplaceItems: true,
		Items:        []usecase.OrderItemInput{{ProductID: f.prodA, Quantity: 4, Price: dec("50")}},
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("200")), "total %s", updated.TotalAmount)
	assert.Len(t, updated.Items, 1)

	paid, err := f.orders.Advance(ctx, f.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, paid.Status)

	_, err = f.orders.Advance(ctx, f.owner, created.ID)
	requireKind(t, err, apperr.KindForbidden)

	shipped, err := f.orders.Advance(ctx, f.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, shipped.Status)

	_, err = f.orders.Advance(ctx, f.admin, created.ID)
	requireKind(t, err, apperr.KindFinalState)

	st := f.db.snapshot()
	assert.Len(t, st.audits, 3)
	assert.Equal(t, []string{"create:pending", "update:pending", "advance:paid", "advance:shipped"}, f.events.events)
}

func TestOrderUsecase_TotalMatchesItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createDefault(t)

	_, err := f.orders.Update(ctx, f.owner, created.ID, usecase.UpdateOrderInput{
		ReplaceItems: true,
		Items: []usecase.OrderItemInput{
			{ProductID: f.prodA, Quantity: 3, Price: dec("0.10")},
			{ProductID: f.prodB, Quantity: 7, Price: dec("19.99")},
		},
	})
	require.NoError(t, err)

	st := f.db.snapshot()
	sum, err := (&memRepos{st: st}).OrderItems().SumTotalByOrderID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, st.orders[created.ID].TotalAmount.Equal(sum))
	assert.True(t, sum.Equal(dec("140.23")), "sum %s", sum)
}

// 作成時も合計は保存済み明細のSUMから出す
func TestOrderUsecase_CreateRecomputesTotalFromStoredItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.db.resetCalls()

	created, err := f.orders.Create(ctx, f.owner, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{
			{ProductID: f.prodA, Quantity: 3, Price: dec("0.01")},
			{ProductID: f.prodB, Quantity: 2, Price: dec("12.34")},
		},
		UseDefaultAddress: true,
	})
	require.NoError(t, err)

	id := formatInt(created.ID)
	assert.Equal(t, []string{"items.insert:" + id, "orders.total:" + id}, f.db.callLog())
	assert.True(t, created.TotalAmount.Equal(dec("24.71")), "total %s", created.TotalAmount)
	assert.True(t, f.db.snapshot().orders[created.ID].TotalAmount.Equal(dec("24.71")))
}

// pending以外は変更できず、行も変わらない
func TestOrderUsecase_UpdateLockedLeavesRowsUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createDefault(t)

	_, err := f.orders.Advance(ctx, f.owner, created.ID)
	require.NoError(t, err)

	before := f.db.snapshot()

	_, err = f.orders.Update(ctx, f.owner, created.ID, usecase.UpdateOrderInput{
		ReplaceItems: true,
		Items:        []usecase.OrderItemInput{{ProductID: f.prodA, Quantity: 9, Price: dec("1")}},
	})
	requireKind(t, err, apperr.KindOrderLocked)

	_, err = f.orders.Update(ctx, f.admin, created.ID, usecase.UpdateOrderInput{UseDefaultAddress: true})
	requireKind(t, err, apperr.KindOrderLocked)

	after := f.db.snapshot()
	assert.Equal(t, before.orders, after.orders)
	assert.Equal(t, before.items, after.items)
	assert.Equal(t, before.audits, after.audits)
}

func TestOrderUsecase_CreateRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.Create(ctx, f.owner, usecase.CreateOrderInput{UseDefaultAddress: true})
	requireKind(t, err, apperr.KindEmptyOrder)

	// otherにはデフォルト住所がない
	_, err = f.orders.Create(ctx, f.other, usecase.CreateOrderInput{
		Items:             []usecase.OrderItemInput{{ProductID: f.prodA, Quantity: 1, Price: dec("10")}},
		UseDefaultAddress: true,
	})
	requireKind(t, err, apperr.KindNoDefaultAddress)

	_, err = f.orders.Create(ctx, f.owner, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{{ProductID: f.prodA, Quantity: 1, Price: dec("10")}},
	})
	requireKind(t, err, apperr.KindValidation)

	_, err = f.orders.Create(ctx, f.owner, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{
			{ProductID: f.prodA, Quantity: 1, Price: dec("10")},
			{ProductID: f.hidden, Quantity: 1, Price: dec("10")},
		},
		UseDefaultAddress: true,
	})
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.orders.Create(ctx, f.owner, usecase.CreateOrderInput{
		Items:             []usecase.OrderItemInput{{ProductID: f.prodA, Quantity: 0, Price: dec("10")}},
		UseDefaultAddress: true,
	})
	requireKind(t, err, apperr.KindValidation)

	// 小数3桁の単価
	_, err = f.orders.Create(ctx, f.owner, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{
			{ProductID: f.prodA, Quantity: 1, Price: dec("0.005")},
			{ProductID: f.prodB, Quantity: 1, Price: dec("0.005")},
		},
		UseDefaultAddress: true,
	})
	requireKind(t, err, apperr.KindValidation)

	// どれも何も残さない
	st := f.db.snapshot()
	assert.Empty(t, st.orders)
	assert.Empty(t, st.items)
	assert.Empty(t, f.events.events)
}

func TestOrderUsecase_ExplicitAddress(t *testing.T) {
	f := newFixture(t)
	addr := &model.ShippingAddress{
		Name: "Hanako", PostalCode: "530-0001", Prefecture: "Osaka", City: "Kita", Line1: "2-2",
	}

	out, err := f.orders.Create(context.Background(), f.other, usecase.CreateOrderInput{
		Items:   []usecase.OrderItemInput{{ProductID: f.prodA, Quantity: 1, Price: dec("10")}},
		Address: addr,
	})
	require.NoError(t, err)
	assert.Equal(t, *addr, out.ShippingAddress)
}

// 住所帳を変えても注文の住所は変わらない
func TestOrderUsecase_AddressIsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createDefault(t)

	addresses := usecase.NewAddressUsecase(f.db.repos().Addresses())
	_, err := addresses.Update(ctx, f.owner, f.addrID, usecase.AddressRequest{
		Name: "Jiro", PostalCode: "060-0001", Prefecture: "Hokkaido", City: "Sapporo", Line1: "3-3",
	})
	require.NoError(t, err)

	got, err := f.orders.Get(ctx, f.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Taro", got.ShippingAddress.Name)

	// 明示的に default を選び直すと新しい住所になる
	updated, err := f.orders.Update(ctx, f.owner, created.ID, usecase.UpdateOrderInput{UseDefaultAddress: true})
	require.NoError(t, err)
	assert.Equal(t, "Jiro", updated.ShippingAddress.Name)
	assert.True(t, updated.TotalAmount.Equal(dec("130")))
}

func TestOrderUsecase_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createDefault(t)

	_, err := f.orders.Get(ctx, f.other, created.ID)
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.orders.Update(ctx, f.other, created.ID, usecase.UpdateOrderInput{UseDefaultAddress: true})
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.orders.Cancel(ctx, f.other, created.ID)
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.orders.Advance(ctx, f.other, created.ID)
	requireKind(t, err, apperr.KindForbidden)

	// adminは pending を進められない
	_, err = f.orders.Advance(ctx, f.admin, created.ID)
	requireKind(t, err, apperr.KindInvalidTransition)

	got, err := f.orders.Get(ctx, f.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	_, err = f.orders.Advance(ctx, f.owner, 9999)
	requireKind(t, err, apperr.KindNotFound)
}

func TestOrderUsecase_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createDefault(t)

	out, err := f.orders.Cancel(ctx, f.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, out.Status)
	assert.Len(t, out.Items, 2)

	_, err = f.orders.Cancel(ctx, f.owner, created.ID)
	requireKind(t, err, apperr.KindInvalidTransition)

	_, err = f.orders.Advance(ctx, f.owner, created.ID)
	requireKind(t, err, apperr.KindInvalidTransition)

	// paid はキャンセル不可
	second := f.createDefault(t)
	_, err = f.orders.Advance(ctx, f.owner, second.ID)
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, f.admin, second.ID)
	requireKind(t, err, apperr.KindInvalidTransition)
}

func TestOrderUsecase_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.createDefault(t)

	_, err := f.orders.Update(ctx, f.owner, created.ID, usecase.UpdateOrderInput{})
	requireKind(t, err, apperr.KindValidation)

	_, err = f.orders.Update(ctx, f.owner, created.ID, usecase.UpdateOrderInput{ReplaceItems: true})
	requireKind(t, err, apperr.KindEmptyOrder)

	got, err := f.orders.Get(ctx, f.owner, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestOrderUsecase_Lists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.createDefault(t)
	second := f.createDefault(t)
	third := f.createDefault(t)

	_, err := f.orders.Cancel(ctx, f.owner, second.ID)
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, f.owner, third.ID)
	require.NoError(t, err)
	_, err = f.orders.Advance(ctx, f.admin, third.ID)
	require.NoError(t, err)

	mine, pg, err := f.orders.ListMine(ctx, f.owner, repo.ListQuery{Page: 0, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 10, pg.Limit)
	assert.Equal(t, int64(3), pg.Total)

	others, _, err := f.orders.ListMine(ctx, f.other, repo.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, others)

	// 既定は pending/paid だけ
	rows, pg, err := f.orders.ListAdmin(ctx, repo.AdminOrderListFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, int64(1), pg.Total)

	rows, _, err = f.orders.ListAdmin(ctx, repo.AdminOrderListFilter{
		Statuses: []model.OrderStatus{model.OrderStatusShipped, model.OrderStatusCancelled},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
