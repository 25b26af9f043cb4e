package repository

import (
	"context"

	"ecadmin/internal/domain/model"
)

var UserSortFields = map[string]string{
	"id":         "id",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"role":       "role",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複はErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。（無ければErrNotFound）
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//更新前に行ロックを取って読む（トランザクション内で使う）
	FindByIDForUpdate(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//有効なユーザー一覧
	ListActive(ctx context.Context, q ListQuery) ([]model.User, int64, error)
	// columnsで指定した列だけ更新する。is_active/token_versionは明示しない限り書かない
	Update(ctx context.Context, user *model.User, columns ...string) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
