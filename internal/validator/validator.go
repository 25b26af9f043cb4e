package validator

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	"ecadmin/internal/usecase"
)

// パスワード最低文字数
const minPasswordLen = 8

var phonePattern = regexp.MustCompile(`^0[0-9]{9}$`)

// リクエストの形だけを検証する。業務ルールはusecase側で再チェックする。
type Validator struct{}

// Usecaseは interface を依存注入
func New() *Validator {
	return &Validator{}
}

var (
	_ usecase.AuthValidator = (*Validator)(nil)
	_ usecase.UserValidator = (*Validator)(nil)
)

// サインアップの入力を検証
func (v *Validator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	if err := v.credentials(in.Email, in.Password); err != nil {
		return err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return apperr.Validation("first_name and last_name are required")
	}
	return Phone(in.Tel)
}

// ログインの入力を検証
func (v *Validator) ValidateLogin(ctx context.Context, email string, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return apperr.Validation("email and password are required")
	}
	return Email(email)
}

func (v *Validator) ValidateCreateUser(ctx context.Context, in usecase.CreateUserInput) error {
	if err := v.credentials(in.Email, in.Password); err != nil {
		return err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return apperr.Validation("first_name and last_name are required")
	}
	if err := Phone(in.Tel); err != nil {
		return err
	}
	if in.Role != "" {
		if _, err := model.ParseRole(string(in.Role)); err != nil {
			return apperr.Validation("role must be user or admin")
		}
	}
	return nil
}

func (v *Validator) ValidateUpdateUser(ctx context.Context, in usecase.UpdateUserInput) error {
	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) == "" {
		return apperr.Validation("first_name must not be empty")
	}
	if in.LastName != nil && strings.TrimSpace(*in.LastName) == "" {
		return apperr.Validation("last_name must not be empty")
	}
	if in.Tel != nil {
		if err := Phone(*in.Tel); err != nil {
			return err
		}
	}
	if in.Role != nil {
		if _, err := model.ParseRole(string(*in.Role)); err != nil {
			return apperr.Validation("role must be user or admin")
		}
	}
	return nil
}

func (v *Validator) credentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return apperr.Validation("email and password are required")
	}
	if err := Email(email); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return apperr.Validation("password must be at least 8 characters")
	}
	return nil
}

// 簡易メール形式をチェック
func Email(s string) error {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@"):], ".") {
		return apperr.Validation("invalid email")
	}
	return nil
}

// 電話番号（0から始まる10桁）
func Phone(s string) error {
	if !phonePattern.MatchString(s) {
		return apperr.Validation("invalid phone number")
	}
	return nil
}

// RFC3339の日時をパースする
func Timestamp(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperr.Validation(field + " must be an RFC3339 timestamp")
	}
	return t.UTC(), nil
}

// 注文明細の形だけ（件数の上限と重複）
func OrderItems(items []usecase.OrderItemInput) error {
	if len(items) > 100 {
		return apperr.Validation("too many items")
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			return apperr.Validation("duplicate product_id in items")
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}
