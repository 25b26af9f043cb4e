package repository

import (
	"context"

	"ecadmin/internal/domain/model"
)

var DiscountSortFields = map[string]string{
	"id":           "product_discounts.id",
	"type":         "product_discounts.type",
	"value":        "product_discounts.value",
	"product_id":   "product_discounts.product_id",
	"product_name": "products.name",
	"start_at":     "product_discounts.start_at",
	"end_at":       "product_discounts.end_at",
	"created_at":   "product_discounts.created_at",
	"updated_at":   "product_discounts.updated_at",
}

type ProductDiscountRepository interface {
	//有効な割引のみ（商品名付き）
	ListActive(ctx context.Context, q ListQuery) ([]model.ProductDiscount, int64, error)
	FindActiveByID(ctx context.Context, id int64) (model.ProductDiscount, error)
	//重複チェック用。excludeIDの割引は除く（0なら除外なし）
	ListActiveByProductID(ctx context.Context, productID int64, excludeID int64) ([]model.ProductDiscount, error)

	Create(ctx context.Context, d model.ProductDiscount) (model.ProductDiscount, error)
	Update(ctx context.Context, d model.ProductDiscount) error
	Deactivate(ctx context.Context, id int64) error
}
