package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies access/refresh tokens with a single HMAC secret.
// IgnoreAccessExpiration makes VerifyAccess accept signature-valid tokens past their exp.
type JWTManager struct {
	Secret                 []byte
	AccessTTL              time.Duration
	RefreshTTL             time.Duration
	IgnoreAccessExpiration bool

	now func() time.Time
}

func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration, ignoreAccessExpiration bool) *JWTManager {
	return &JWTManager{
		Secret:                 []byte(secret),
		AccessTTL:              accessTTL,
		RefreshTTL:             refreshTTL,
		IgnoreAccessExpiration: ignoreAccessExpiration,
		now:                    time.Now,
	}
}

// Claims carries only the user id besides the registered exp/iat.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenPair is the material returned by a sign-in, sign-up or refresh.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// IssuePair mints a fresh access and refresh token for userID.
func (m *JWTManager) IssuePair(userID string) (TokenPair, error) {
	access, aexp, err := m.sign(userID, m.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := m.sign(userID, m.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (m *JWTManager) sign(userID string, ttl time.Duration) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// VerifyAccess checks an access token presented as a bearer credential.
func (m *JWTManager) VerifyAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, !m.IgnoreAccessExpiration)
}

// VerifyRefresh checks a refresh token; expiry is always enforced.
func (m *JWTManager) VerifyRefresh(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, true)
}

func (m *JWTManager) parse(tokenStr string, enforceExpiry bool) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock),
	}
	if !enforceExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
