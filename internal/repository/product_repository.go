package repository

import (
	"context"

	"ecadmin/internal/domain/model"
)

var ProductSortFields = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"category":   "category",
	"is_active":  "is_active",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//公開中の商品のみ
	ListActive(ctx context.Context, q ListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	//割引の重複チェック中は商品行をロックする
	LockByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
