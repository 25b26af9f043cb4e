package usecase

import (
	"context"
	"errors"
	"strings"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	"ecadmin/internal/domain/order"
	"ecadmin/internal/infra/token"
	repo "ecadmin/internal/repository"
)

// 認証済みの呼び出し元
type Principal struct {
	UserID int64      `json:"user_id"`
	Role   model.Role `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

func (p Principal) Actor() order.Actor {
	return order.Actor{UserID: p.UserID, Role: p.Role}
}

// JWTを検証する約束
type TokenVerifier interface {
	Verify(raw string) (token.Verified, error)
}

// PrincipalResolverはbearerトークンから呼び出し元を決める。
// 署名・期限だけでなく、DB上のis_activeとtoken_versionも見る。
type PrincipalResolver struct {
	verifier TokenVerifier
	users    repo.UserRepository
}

func NewPrincipalResolver(verifier TokenVerifier, users repo.UserRepository) *PrincipalResolver {
	return &PrincipalResolver{verifier: verifier, users: users}
}

// Resolveはrequiredが空ならロールを問わない
func (r *PrincipalResolver) Resolve(ctx context.Context, bearer string, required ...model.Role) (Principal, error) {
	raw := bearerToken(bearer)
	if raw == "" {
		return Principal{}, apperr.Unauthenticated("missing bearer token")
	}

	claims, err := r.verifier.Verify(raw)
	if err != nil {
		return Principal{}, apperr.Unauthenticated("invalid or expired token")
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Principal{}, apperr.Unauthenticated("user not found")
		}
		return Principal{}, apperr.Internal(err)
	}

	//無効化済み
	if !user.IsActive {
		return Principal{}, apperr.Unauthenticated("account is inactive")
	}

	//token_version が一致しなければ失効扱い
	if user.TokenVersion != claims.TokenVersion {
		return Principal{}, apperr.Unauthenticated("token has been revoked")
	}

	if len(required) > 0 && !hasRole(user.Role, required) {
		return Principal{}, apperr.Forbidden("insufficient role")
	}

	return Principal{UserID: user.ID, Role: user.Role}, nil
}

func hasRole(role model.Role, allowed []model.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// "Bearer xxx" からトークン部分を取り出す
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
