package repository

import (
	"context"
	"time"

	"ecadmin/internal/domain/model"
)

var AuditLogSortFields = map[string]string{
	"id":            "id",
	"action":        "action",
	"resource_type": "resource_type",
	"actor_user_id": "actor_user_id",
	"created_at":    "created_at",
}

// 監査ログ一覧の条件。nilの項目は絞り込まない
type AuditLogFilter struct {
	ListQuery
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	//created_atの範囲（両端を含む）
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// 監査ログは追記のみ。更新・削除はしない
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, int64, error)
}
