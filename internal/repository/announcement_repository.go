package repository

import (
	"context"

	"ecadmin/internal/domain/model"
)

var AnnouncementSortFields = map[string]string{
	"id":         "id",
	"title":      "title",
	"start_at":   "start_at",
	"end_at":     "end_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type AnnouncementRepository interface {
	ListActive(ctx context.Context, q ListQuery) ([]model.Announcement, int64, error)
	FindActiveByID(ctx context.Context, id int64) (model.Announcement, error)
	Create(ctx context.Context, a model.Announcement) (model.Announcement, error)
	Update(ctx context.Context, a model.Announcement) error
	Deactivate(ctx context.Context, id int64) error
}
