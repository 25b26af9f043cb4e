package token

import (
	"errors"
	"strconv"
	"time"

	"ecadmin/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// 署名不正・期限切れ・形式不正はすべてこれ
var ErrInvalidToken = errors.New("invalid token")

// アクセストークンのclaims
type Claims struct {
	Role         model.Role `json:"role"`
	TokenVersion int        `json:"tv"`
	jwt.RegisteredClaims
}

// 検証済みトークンから取り出した値
type Verified struct {
	UserID       int64
	Role         model.Role
	TokenVersion int
	ExpiresAt    time.Time
}

// HS256でJWTを発行・検証する
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issueはsub/role/tv/iat/exp/jtiを持つトークンを返す
func (m *JWTManager) Issue(user *model.User) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)

	claims := Claims{
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verifyは署名と有効期限を確認してclaimsを返す
func (m *JWTManager) Verify(raw string) (Verified, error) {
	claims := &Claims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}

	t, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || t == nil || !t.Valid {
		return Verified{}, ErrInvalidToken
	}

	// expは必須
	if claims.ExpiresAt == nil || !claims.VerifyExpiresAt(m.now(), true) {
		return Verified{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Verified{}, ErrInvalidToken
	}
	if claims.TokenVersion < 0 {
		return Verified{}, ErrInvalidToken
	}

	return Verified{
		UserID:       userID,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
