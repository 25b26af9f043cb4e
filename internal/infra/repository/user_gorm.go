package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	domainrepo "ecadmin/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecase/middlewareに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "create user")
	}
	return nil
}

// emailでユーザーを1件取得
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "find user by email")
	}
	return &u, nil
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

func (r *userGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, translate(err, "find user for update")
	}
	return &u, nil
}

func (r *userGormRepository) ListActive(ctx context.Context, q domainrepo.ListQuery) ([]model.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{}).Where("is_active = ?", true)
	if q.Search != "" {
		like := likePattern(q.Search)
		tx = tx.Where("first_name ILIKE ? ESCAPE '\\' OR last_name ILIKE ? ESCAPE '\\' OR email ILIKE ? ESCAPE '\\'", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.User{}, 0, translate(err, "count users")
	}

	var users []model.User
	err := tx.Order(q.OrderClause(domainrepo.UserSortFields)).
		Order("id desc").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&users).Error
	if err != nil {
		return []model.User{}, 0, translate(err, "list users")
	}
	return users, total, nil
}

// 指定した列だけ更新する。列の指定は必須
func (r *userGormRepository) Update(ctx context.Context, user *model.User, columns ...string) error {
	if len(columns) == 0 {
		return errors.New("update user: no columns")
	}
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Select(columns).
		Updates(user)
	return affected(res, "update user")
}

// token_versionを+1 します。
func (r *userGormRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1))

	// 0件更新は「対象がない」
	return affected(res, "increment token version")
}
