package repository

import (
	"context"

	"ecadmin/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	//明細の入れ替え用
	DeleteByOrderID(ctx context.Context, orderID int64) error
	//SUM(total)。明細が無ければ0
	SumTotalByOrderID(ctx context.Context, orderID int64) (decimal.Decimal, error)
}
