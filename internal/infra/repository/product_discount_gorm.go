package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
)

type productDiscountGormRepository struct {
	db *gorm.DB
}

func NewProductDiscountGormRepository(db *gorm.DB) repo.ProductDiscountRepository {
	return &productDiscountGormRepository{db: db}
}

func (r *productDiscountGormRepository) activeWithProduct(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product_discounts").
		Joins("JOIN products ON products.id = product_discounts.product_id").
		Where("product_discounts.is_active = ?", true)
}

func (r *productDiscountGormRepository) ListActive(ctx context.Context, q repo.ListQuery) ([]model.ProductDiscount, int64, error) {
	tx := r.activeWithProduct(ctx)
	if q.Search != "" {
		tx = tx.Where("products.name ILIKE ? ESCAPE '\\'", likePattern(q.Search))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.ProductDiscount{}, 0, translate(err, "count discounts")
	}

	var list []model.ProductDiscount
	err := tx.
		Select("product_discounts.*, products.name AS product_name").
		Order(q.OrderClause(repo.DiscountSortFields)).
		Order("product_discounts.id desc").
		Limit(q.Limit).
		Offset(q.Offset()).
		Scan(&list).Error
	if err != nil {
		return []model.ProductDiscount{}, 0, translate(err, "list discounts")
	}
	return list, total, nil
}

func (r *productDiscountGormRepository) FindActiveByID(ctx context.Context, id int64) (model.ProductDiscount, error) {
	var list []model.ProductDiscount
	err := r.activeWithProduct(ctx).
		Select("product_discounts.*, products.name AS product_name").
		Where("product_discounts.id = ?", id).
		Limit(1).
		Scan(&list).Error
	if err != nil {
		return model.ProductDiscount{}, translate(err, "find discount")
	}
	if len(list) == 0 {
		return model.ProductDiscount{}, repo.ErrNotFound
	}
	return list[0], nil
}

func (r *productDiscountGormRepository) ListActiveByProductID(ctx context.Context, productID int64, excludeID int64) ([]model.ProductDiscount, error) {
	q := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var list []model.ProductDiscount
	if err := q.Order("start_at asc").Find(&list).Error; err != nil {
		return []model.ProductDiscount{}, translate(err, "list product discounts")
	}
	return list, nil
}

func (r *productDiscountGormRepository) Create(ctx context.Context, d model.ProductDiscount) (model.ProductDiscount, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return model.ProductDiscount{}, translate(err, "create discount")
	}
	return d, nil
}

func (r *productDiscountGormRepository) Update(ctx context.Context, d model.ProductDiscount) error {
	res := r.db.WithContext(ctx).Model(&model.ProductDiscount{}).
		Where("id = ? AND is_active = ?", d.ID, true).
		Updates(map[string]interface{}{
			"product_id": d.ProductID,
			"type":       d.Type,
			"value":      d.Value,
			"start_at":   d.StartAt,
			"end_at":     d.EndAt,
		})
	return affected(res, "update discount")
}

func (r *productDiscountGormRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.ProductDiscount{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return affected(res, "deactivate discount")
}
