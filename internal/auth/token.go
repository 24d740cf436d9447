package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/config"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// JWTClaims represents the signed session token payload
type JWTClaims struct {
	AccountID string     `json:"account_id"`
	Role      types.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens. The signing key
// is validated at construction; a missing secret never surfaces per request.
type TokenService struct {
	secret          []byte
	sessionTTL      time.Duration
	adminSessionTTL time.Duration
	issuer          string
	audience        string
}

// NewTokenService creates a new token service from validated configuration
func NewTokenService(cfg *config.JWTConfig) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("JWT secret key is required")
	}

	return &TokenService{
		secret:          []byte(cfg.SecretKey),
		sessionTTL:      cfg.SessionDuration(),
		adminSessionTTL: cfg.AdminSessionDuration(),
		issuer:          cfg.Issuer,
		audience:        cfg.Audience,
	}, nil
}

// Issue produces a signed token embedding the account identity and role.
// Admin and superadmin sessions run 7 days; everyone else gets the shorter
// default.
func (ts *TokenService) Issue(accountID string, role types.Role) (*types.AuthToken, error) {
	ttl := ts.sessionTTL
	if role == types.RoleAdmin || role == types.RoleSuperAdmin {
		ttl = ts.adminSessionTTL
	}

	now := time.Now()
	claims := &JWTClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    ts.issuer,
			Audience:  jwt.ClaimStrings{ts.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &types.AuthToken{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		IssuedAt:    now,
	}, nil
}

// Verify checks signature integrity, expiry, audience and issuer, and
// returns the decoded claims only if all hold. Any failure comes back as a
// typed invalid-token error; no raw decode error escapes this boundary.
func (ts *TokenService) Verify(tokenString string) (*types.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	}, jwt.WithAudience(ts.audience), jwt.WithIssuer(ts.issuer))

	if err != nil || !token.Valid {
		return nil, types.NewAuthenticationError(types.ErrCodeInvalidToken, "Invalid or expired token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, types.NewAuthenticationError(types.ErrCodeInvalidToken, "Invalid token claims")
	}

	return &types.Claims{
		AccountID: claims.AccountID,
		Role:      claims.Role,
	}, nil
}
