package usecase_test

import (
	"context"
	"errors"
	"testing"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	"ecadmin/internal/infra/token"
	"ecadmin/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type TokenVerifierMock struct{ mock.Mock }

func (m *TokenVerifierMock) Verify(raw string) (token.Verified, error) {
	args := m.Called(raw)
	v, _ := args.Get(0).(token.Verified)
	return v, args.Error(1)
}

func claimsFor(p usecase.Principal, tv int) token.Verified {
	return token.Verified{UserID: p.UserID, Role: p.Role, TokenVersion: tv}
}

func TestPrincipalResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	verifier := new(TokenVerifierMock)
	verifier.On("Verify", "owner-token").Return(claimsFor(f.owner, 0), nil)
	verifier.On("Verify", "admin-token").Return(claimsFor(f.admin, 0), nil)
	verifier.On("Verify", "stale-token").Return(claimsFor(f.owner, 5), nil)
	verifier.On("Verify", "ghost-token").Return(token.Verified{UserID: 9999}, nil)
	verifier.On("Verify", "broken").Return(token.Verified{}, errors.New("bad signature"))

	r := usecase.NewPrincipalResolver(verifier, f.db.repos().Users())

	p, err := r.Resolve(ctx, "Bearer owner-token")
	require.NoError(t, err)
	assert.Equal(t, f.owner, p)

	p, err = r.Resolve(ctx, "bearer admin-token", model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	_, err = r.Resolve(ctx, "Bearer owner-token", model.RoleAdmin)
	requireKind(t, err, apperr.KindForbidden)

	cases := map[string]string{
		"missing header":      "",
		"not bearer":          "Basic abc",
		"empty token":         "Bearer ",
		"bad signature":       "Bearer broken",
		"version mismatch":    "Bearer stale-token",
		"user does not exist": "Bearer ghost-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(ctx, header)
			requireKind(t, err, apperr.KindUnauthenticated)
		})
	}
}

// 無効化すると、それまでのトークンは使えなくなる
func TestPrincipalResolver_RevokedAfterDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	verifier := new(TokenVerifierMock)
	verifier.On("Verify", "owner-token").Return(claimsFor(f.owner, 0), nil)
	r := usecase.NewPrincipalResolver(verifier, f.db.repos().Users())

	_, err := r.Resolve(ctx, "Bearer owner-token")
	require.NoError(t, err)

	users := usecase.NewUserUsecase(f.db, f.db.repos().Users(), usecase.NewBcryptPasswordHasher(4), passValidator{})
	require.NoError(t, users.Deactivate(ctx, f.admin, f.owner.UserID))

	_, err = r.Resolve(ctx, "Bearer owner-token")
	requireKind(t, err, apperr.KindUnauthenticated)

	st := f.db.snapshot()
	assert.Equal(t, 1, st.users[f.owner.UserID].TokenVersion)
	assert.False(t, st.users[f.owner.UserID].IsActive)
	require.Len(t, st.audits, 1)
	assert.Equal(t, model.AuditActionUserDeactivate, st.audits[0].Action)
}
