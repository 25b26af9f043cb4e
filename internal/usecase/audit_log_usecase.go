package usecase

import (
	"context"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
)

type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

// 監査ログの一覧。既定は新しい順
func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, repo.Pagination, error) {
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return []model.AuditLog{}, repo.Pagination{}, apperr.Validation("from must be before to")
	}
	f.ListQuery = f.ListQuery.Normalize(repo.AuditLogSortFields)
	logs, total, err := u.logs.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, repo.Pagination{}, fromRepo(err, "audit log")
	}
	return logs, repo.NewPagination(f.ListQuery, total), nil
}
