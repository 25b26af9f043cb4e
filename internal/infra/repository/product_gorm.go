package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみを、検索/ソート/ページング付きで返す。
func (r *ProductGormRepository) ListActive(ctx context.Context, q repo.ListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)

	// 名前・説明・カテゴリを対象
	if q.Search != "" {
		like := likePattern(q.Search)
		tx = tx.Where("name ILIKE ? ESCAPE '\\' OR description ILIKE ? ESCAPE '\\' OR category ILIKE ? ESCAPE '\\'", like, like, like)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, translate(err, "count products")
	}

	err := tx.Order(q.OrderClause(repo.ProductSortFields)).
		Order("id desc").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, 0, translate(err, "list products")
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Product{}, translate(err, "find product")
	}
	return p, nil
}

// SELECT ... FOR UPDATE で商品行をロック
func (r *ProductGormRepository) LockByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err, "lock product")
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translate(err, "create product")
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"price":       p.Price,
		"is_active":   p.IsActive,
	})
	return affected(res, "update product")
}

// 商品削除（is_activeも落とす）
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", id).Update("is_active", false)
		if err := affected(res, "deactivate product"); err != nil {
			return err
		}
		return affected(tx.Delete(&model.Product{}, id), "delete product")
	})
}
