package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

func (r *addressGormRepository) Create(ctx context.Context, a model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Address{}, translate(err, "create address")
	}
	return a, nil
}

func (r *addressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	var list []model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default desc").Order("id asc").
		Find(&list).Error
	if err != nil {
		return []model.Address{}, translate(err, "list addresses")
	}
	return list, nil
}

func (r *addressGormRepository) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).First(&a, addressID).Error; err != nil {
		return model.Address{}, translate(err, "find address")
	}
	return a, nil
}

func (r *addressGormRepository) FindDefaultByUserID(ctx context.Context, userID int64) (model.Address, error) {
	var a model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&a).Error
	if err != nil {
		return model.Address{}, translate(err, "find default address")
	}
	return a, nil
}

func (r *addressGormRepository) Update(ctx context.Context, a model.Address) error {
	res := r.db.WithContext(ctx).Model(&model.Address{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"name":        a.Name,
		"postal_code": a.PostalCode,
		"prefecture":  a.Prefecture,
		"city":        a.City,
		"line1":       a.Line1,
		"line2":       a.Line2,
		"phone":       a.Phone,
		"updated_at":  a.UpdatedAt,
	})
	return affected(res, "update address")
}

func (r *addressGormRepository) Delete(ctx context.Context, addressID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Address{}, addressID)
	return affected(res, "delete address")
}

// user内でdefaultは1つだけにする
func (r *addressGormRepository) SetDefault(ctx context.Context, userID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Address{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return translate(err, "clear default address")
		}

		res := tx.Model(&model.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		return affected(res, "set default address")
	})
}
