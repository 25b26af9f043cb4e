package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, translate(err, "find order")
	}
	return o, nil
}

// 行ロックを取ってから読む。同じ注文への同時更新はここで直列になる
func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translate(err, "find order for update")
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, q repo.ListQuery) ([]model.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Order{}).Where("orders.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Order{}, 0, translate(err, "count orders")
	}

	var items []model.Order
	err := base.
		Order(q.OrderClause(repo.MyOrderSortFields)).
		Order("orders.id desc").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, translate(err, "list orders")
	}

	return items, total, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]repo.OrderSummary, int64, error) {
	q := r.db.WithContext(ctx).
		Table("orders").
		Joins("JOIN users ON users.id = orders.user_id")

	//status 絞り込み（指定なしは未発送のものだけ）
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPaid}
	}
	q = q.Where("orders.status IN ?", statuses)

	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("orders.user_id = ?", *f.UserID)
	}

	//名前で検索
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("users.first_name ILIKE ? ESCAPE '\\' OR users.last_name ILIKE ? ESCAPE '\\'", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []repo.OrderSummary{}, 0, translate(err, "count admin orders")
	}

	var rows []repo.OrderSummary
	err := q.
		Select("orders.*, users.first_name, users.last_name").
		Order(f.OrderClause(repo.OrderSortFields)).
		Order("orders.id desc").
		Limit(f.Limit).
		Offset(f.Offset()).
		Scan(&rows).Error
	if err != nil {
		return []repo.OrderSummary{}, 0, translate(err, "list admin orders")
	}

	return rows, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&order).Error; err != nil {
		return 0, translate(err, "create order")
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	return affected(res, "update order status")
}

func (r *OrderGormRepository) UpdateShippingAddress(ctx context.Context, orderID int64, addr model.ShippingAddress) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"ship_name":        addr.Name,
			"ship_postal_code": addr.PostalCode,
			"ship_prefecture":  addr.Prefecture,
			"ship_city":        addr.City,
			"ship_line1":       addr.Line1,
			"ship_line2":       addr.Line2,
			"ship_phone":       addr.Phone,
		})
	return affected(res, "update order address")
}

func (r *OrderGormRepository) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total)
	return affected(res, "update order total")
}
