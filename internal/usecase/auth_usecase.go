package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// JWTを発行する約束
type TokenIssuer interface {
	Issue(user *model.User) (token string, expiresAt time.Time, err error)
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Tel       string `json:"tel"`
}

type AccessTokenDTO struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type LoginOutput struct {
	User  UserDTO        `json:"user"`
	Token AccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	users     repo.UserRepository
	hasher    PasswordHasher
	issuer    TokenIssuer
	validator AuthValidator
	now       func() time.Time
}

func NewAuthUsecase(
	users repo.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
		now:       time.Now,
	}
}

// 会員登録。roleは常にuser。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return UserDTO{}, err
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
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
		Role:         model.RoleUser,
		TokenVersion: 0,
		IsActive:     true,
	}

	//email重複はrepoがErrConflictにする
	if err := u.users.Create(ctx, user); err != nil {
		return UserDTO{}, fromRepo(err, "email")
	}

	return toUserDTO(user), nil
}

// ログインしてアクセストークンを返す
func (u *AuthUsecase) Login(ctx context.Context, email string, password string) (LoginOutput, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := u.validator.ValidateLogin(ctx, email, password); err != nil {
		return LoginOutput{}, err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return LoginOutput{}, apperr.Unauthenticated("invalid credentials")
		}
		return LoginOutput{}, apperr.Internal(err)
	}

	//パスワード照合（bcrypt）
	if !u.hasher.Verify(password, user.PasswordHash) {
		return LoginOutput{}, apperr.Unauthenticated("invalid credentials")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginOutput{}, apperr.Forbidden("user is inactive")
	}

	//last_login更新
	now := u.now()
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user, "last_login_at"); err != nil {
		return LoginOutput{}, fromRepo(err, "user")
	}

	accessToken, exp, err := u.issuer.Issue(user)
	if err != nil {
		return LoginOutput{}, apperr.Internal(err)
	}

	return LoginOutput{
		User: toUserDTO(user),
		Token: AccessTokenDTO{
			AccessToken:  accessToken,
			ExpiresIn:    int(exp.Sub(now).Seconds()),
			TokenVersion: user.TokenVersion,
		},
	}, nil
}
