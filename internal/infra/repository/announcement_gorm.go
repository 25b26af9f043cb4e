package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
)

type announcementGormRepository struct {
	db *gorm.DB
}

func NewAnnouncementGormRepository(db *gorm.DB) repo.AnnouncementRepository {
	return &announcementGormRepository{db: db}
}

func (r *announcementGormRepository) ListActive(ctx context.Context, q repo.ListQuery) ([]model.Announcement, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Announcement{}).Where("is_active = ?", true)
	if q.Search != "" {
		like := likePattern(q.Search)
		tx = tx.Where("title ILIKE ? ESCAPE '\\' OR description ILIKE ? ESCAPE '\\'", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Announcement{}, 0, translate(err, "count announcements")
	}

	var list []model.Announcement
	err := tx.Order(q.OrderClause(repo.AnnouncementSortFields)).
		Order("id desc").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&list).Error
	if err != nil {
		return []model.Announcement{}, 0, translate(err, "list announcements")
	}
	return list, total, nil
}

func (r *announcementGormRepository) FindActiveByID(ctx context.Context, id int64) (model.Announcement, error) {
	var a model.Announcement
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&a).Error
	if err != nil {
		return model.Announcement{}, translate(err, "find announcement")
	}
	return a, nil
}

func (r *announcementGormRepository) Create(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Announcement{}, translate(err, "create announcement")
	}
	return a, nil
}

func (r *announcementGormRepository) Update(ctx context.Context, a model.Announcement) error {
	res := r.db.WithContext(ctx).Model(&model.Announcement{}).
		Where("id = ? AND is_active = ?", a.ID, true).
		Updates(map[string]interface{}{
			"title":       a.Title,
			"description": a.Description,
			"start_at":    a.StartAt,
			"end_at":      a.EndAt,
		})
	return affected(res, "update announcement")
}

func (r *announcementGormRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Announcement{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return affected(res, "deactivate announcement")
}
