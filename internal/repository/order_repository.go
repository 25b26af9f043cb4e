package repository

import (
	"context"

	"ecadmin/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 管理者用の注文一覧条件
type AdminOrderListFilter struct {
	ListQuery
	//空なら pending/paid のみ
	Statuses []model.OrderStatus
	UserID   *int64
}

// 注文一覧の1行（ユーザー名付き）
type OrderSummary struct {
	model.Order
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

var OrderSortFields = map[string]string{
	"order_id":     "orders.id",
	"user_id":      "orders.user_id",
	"first_name":   "users.first_name",
	"total_amount": "orders.total_amount",
	"status":       "orders.status",
	"created_at":   "orders.created_at",
	"updated_at":   "orders.updated_at",
}

// 自分の注文一覧用（usersをJOINしない）
var MyOrderSortFields = map[string]string{
	"order_id":     "orders.id",
	"total_amount": "orders.total_amount",
	"status":       "orders.status",
	"created_at":   "orders.created_at",
	"updated_at":   "orders.updated_at",
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//SELECT ... FOR UPDATE（トランザクション内で使う）
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, q ListQuery) ([]model.Order, int64, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]OrderSummary, int64, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateShippingAddress(ctx context.Context, orderID int64, addr model.ShippingAddress) error
	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
}
