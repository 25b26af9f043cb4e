package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
)

// 管理者のユーザー作成・更新の入力検証
type UserValidator interface {
	ValidateCreateUser(ctx context.Context, in CreateUserInput) error
	ValidateUpdateUser(ctx context.Context, in UpdateUserInput) error
}

type UserDTO struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Tel         string     `json:"tel"`
	Role        model.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateUserInput struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Tel       string     `json:"tel"`
	Role      model.Role `json:"role"`
}

// nilの項目は変更しない
type UpdateUserInput struct {
	FirstName *string     `json:"first_name"`
	LastName  *string     `json:"last_name"`
	Tel       *string     `json:"tel"`
	Role      *model.Role `json:"role"`
}

func (in UpdateUserInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Tel == nil && in.Role == nil
}

// プロフィール更新で書く列（is_active/token_versionは含めない）
var profileColumns = []string{"first_name", "last_name", "tel", "role"}

// 退会時に書き換える列
var anonymizeColumns = []string{"email", "first_name", "last_name", "tel", "password_hash", "role", "is_active"}

type UserUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	hasher    PasswordHasher
	validator UserValidator
	now       func() time.Time
}

func NewUserUsecase(tx repo.TransactionManager, users repo.UserRepository, hasher PasswordHasher, validator UserValidator) *UserUsecase {
	return &UserUsecase{tx: tx, users: users, hasher: hasher, validator: validator, now: time.Now}
}

func (u *UserUsecase) List(ctx context.Context, q repo.ListQuery) ([]UserDTO, repo.Pagination, error) {
	q = q.Normalize(repo.UserSortFields)
	users, total, err := u.users.ListActive(ctx, q)
	if err != nil {
		return []UserDTO{}, repo.Pagination{}, fromRepo(err, "user")
	}

	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out, repo.NewPagination(q, total), nil
}

func (u *UserUsecase) Get(ctx context.Context, id int64) (UserDTO, error) {
	user, err := u.findActive(ctx, u.users, id)
	if err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(user), nil
}

func (u *UserUsecase) Create(ctx context.Context, in CreateUserInput) (UserDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if err := u.validator.ValidateCreateUser(ctx, in); err != nil {
		return UserDTO{}, err
	}
	if !in.Role.Valid() {
		return UserDTO{}, apperr.Validation("role must be user or admin")
	}

	pwHash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserDTO{}, apperr.Internal(err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: pwHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Tel:          in.Tel,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return UserDTO{}, fromRepo(err, "email")
	}
	return toUserDTO(user), nil
}

// 管理者によるユーザー更新
func (u *UserUsecase) Update(ctx context.Context, id int64, in UpdateUserInput) (UserDTO, error) {
	if err := u.validator.ValidateUpdateUser(ctx, in); err != nil {
		return UserDTO{}, err
	}
	return u.update(ctx, id, in)
}

// 管理者による削除は無効化＋token_versionの加算
func (u *UserUsecase) Deactivate(ctx context.Context, actor Principal, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := lockActive(ctx, r.Users(), id)
		if err != nil {
			return err
		}

		user.IsActive = false
		if err := r.Users().Update(ctx, user, "is_active"); err != nil {
			return fromRepo(err, "user")
		}
		if err := r.Users().IncrementTokenVersion(ctx, id); err != nil {
			return fromRepo(err, "user")
		}
		return u.auditUser(ctx, r, actor.UserID, id, "deactivated")
	})
}

func (u *UserUsecase) GetMe(ctx context.Context, p Principal) (UserDTO, error) {
	return u.Get(ctx, p.UserID)
}

// 自分の情報の更新（roleは変えられない）
func (u *UserUsecase) UpdateMe(ctx context.Context, p Principal, in UpdateUserInput) (UserDTO, error) {
	if in.Role != nil {
		return UserDTO{}, apperr.Validation("role cannot be changed")
	}
	if err := u.validator.ValidateUpdateUser(ctx, in); err != nil {
		return UserDTO{}, err
	}
	return u.update(ctx, p.UserID, in)
}

// 退会。個人情報を匿名化して無効にし、発行済みトークンを失効させる。
func (u *UserUsecase) DeleteMe(ctx context.Context, p Principal) error {
	secret, err := randomSecret()
	if err != nil {
		return apperr.Internal(err)
	}
	pwHash, err := u.hasher.Hash(secret)
	if err != nil {
		return apperr.Internal(err)
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := lockActive(ctx, r.Users(), p.UserID)
		if err != nil {
			return err
		}

		user.IsActive = false
		user.Email = fmt.Sprintf("deleted_%d_%d@example.com", user.ID, u.now().UnixNano())
		user.FirstName = "deleted"
		user.LastName = "user"
		user.Tel = "-"
		user.PasswordHash = pwHash
		user.Role = model.RoleUser

		if err := r.Users().Update(ctx, user, anonymizeColumns...); err != nil {
			return fromRepo(err, "user")
		}
		if err := r.Users().IncrementTokenVersion(ctx, user.ID); err != nil {
			return fromRepo(err, "user")
		}
		return u.auditUser(ctx, r, p.UserID, user.ID, "anonymized")
	})
}

func (u *UserUsecase) update(ctx context.Context, id int64, in UpdateUserInput) (UserDTO, error) {
	if in.empty() {
		return UserDTO{}, apperr.Validation("no data to update")
	}
	if in.Role != nil && !in.Role.Valid() {
		return UserDTO{}, apperr.Validation("role must be user or admin")
	}

	var out UserDTO
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := lockActive(ctx, r.Users(), id)
		if err != nil {
			return err
		}

		if in.FirstName != nil {
			user.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			user.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Tel != nil {
			user.Tel = *in.Tel
		}
		if in.Role != nil {
			user.Role = *in.Role
		}

		if err := r.Users().Update(ctx, user, profileColumns...); err != nil {
			return fromRepo(err, "user")
		}
		out = toUserDTO(user)
		return nil
	})
	if err != nil {
		return UserDTO{}, err
	}
	return out, nil
}

// 行ロックを取って読む。無効化済みはNotFound
func lockActive(ctx context.Context, users repo.UserRepository, id int64) (*model.User, error) {
	if err := requireID(id, "user id"); err != nil {
		return nil, err
	}
	user, err := users.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	if !user.IsActive {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// 無効化済みは存在しない扱い
func (u *UserUsecase) findActive(ctx context.Context, users repo.UserRepository, id int64) (*model.User, error) {
	if err := requireID(id, "user id"); err != nil {
		return nil, err
	}
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	if !user.IsActive {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (u *UserUsecase) auditUser(ctx context.Context, r repo.TxRepos, actorID, userID int64, result string) error {
	after, err := json.Marshal(map[string]interface{}{"is_active": false, "result": result})
	if err != nil {
		return apperr.Internal(err)
	}
	return fromRepo(r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       model.AuditActionUserDeactivate,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		BeforeJSON:   `{"is_active":true}`,
		AfterJSON:    string(after),
		CreatedAt:    u.now(),
	}), "audit log")
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Tel:         u.Tel,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
