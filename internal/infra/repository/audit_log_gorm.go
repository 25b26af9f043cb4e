package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return translate(err, "create audit log")
	}
	return nil
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if f.ActorUserID != nil {
		tx = tx.Where("actor_user_id = ?", *f.ActorUserID)
	}
	if f.Action != nil {
		tx = tx.Where("action = ?", *f.Action)
	}
	if f.ResourceType != nil {
		tx = tx.Where("resource_type = ?", *f.ResourceType)
	}
	if f.ResourceID != nil {
		tx = tx.Where("resource_id = ?", *f.ResourceID)
	}
	if f.CreatedFrom != nil {
		tx = tx.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		tx = tx.Where("created_at <= ?", *f.CreatedTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.AuditLog{}, 0, translate(err, "count audit logs")
	}

	var logs []model.AuditLog
	err := tx.Order(f.OrderClause(repo.AuditLogSortFields)).
		Order("id desc").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&logs).Error
	if err != nil {
		return []model.AuditLog{}, 0, translate(err, "list audit logs")
	}
	return logs, total, nil
}
