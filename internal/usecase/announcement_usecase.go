package usecase

import (
	"context"
	"strings"
	"time"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
)

type AnnouncementUsecase struct {
	announcements repo.AnnouncementRepository
}

func NewAnnouncementUsecase(announcements repo.AnnouncementRepository) *AnnouncementUsecase {
	return &AnnouncementUsecase{announcements: announcements}
}

type AnnouncementInput struct {
	Title       string
	Description string
	StartAt     time.Time
	EndAt       time.Time
}

func (in AnnouncementInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.Validation("title required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperr.Validation("description required")
	}
	if in.StartAt.IsZero() || in.EndAt.IsZero() {
		return apperr.Validation("start_at and end_at required")
	}
	if in.StartAt.After(in.EndAt) {
		return apperr.Validation("start_at must not be after end_at")
	}
	return nil
}

func (u *AnnouncementUsecase) List(ctx context.Context, q repo.ListQuery) ([]model.Announcement, repo.Pagination, error) {
	q = q.Normalize(repo.AnnouncementSortFields)
	list, total, err := u.announcements.ListActive(ctx, q)
	if err != nil {
		return []model.Announcement{}, repo.Pagination{}, fromRepo(err, "announcement")
	}
	return list, repo.NewPagination(q, total), nil
}

func (u *AnnouncementUsecase) Get(ctx context.Context, id int64) (model.Announcement, error) {
	if err := requireID(id, "announcement id"); err != nil {
		return model.Announcement{}, err
	}
	a, err := u.announcements.FindActiveByID(ctx, id)
	if err != nil {
		return model.Announcement{}, fromRepo(err, "announcement")
	}
	return a, nil
}

func (u *AnnouncementUsecase) Create(ctx context.Context, in AnnouncementInput) (model.Announcement, error) {
	if err := in.validate(); err != nil {
		return model.Announcement{}, err
	}
	a, err := u.announcements.Create(ctx, model.Announcement{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		IsActive:    true,
	})
	if err != nil {
		return model.Announcement{}, fromRepo(err, "announcement")
	}
	return a, nil
}

func (u *AnnouncementUsecase) Update(ctx context.Context, id int64, in AnnouncementInput) (model.Announcement, error) {
	if err := requireID(id, "announcement id"); err != nil {
		return model.Announcement{}, err
	}
	if err := in.validate(); err != nil {
		return model.Announcement{}, err
	}

	err := u.announcements.Update(ctx, model.Announcement{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
	})
	if err != nil {
		return model.Announcement{}, fromRepo(err, "announcement")
	}
	return u.Get(ctx, id)
}

func (u *AnnouncementUsecase) Delete(ctx context.Context, id int64) error {
	if err := requireID(id, "announcement id"); err != nil {
		return err
	}
	return fromRepo(u.announcements.Deactivate(ctx, id), "announcement")
}
