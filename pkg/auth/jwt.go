package auth

import (
	"errors"
	"fmt"
	"time"

	"techknowledgepills/application/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "typ" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims are the JWT claims issued by the API
type Claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 access and refresh tokens
type JWTIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTIssuer creates an issuer. An empty secret is rejected.
func NewJWTIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Issue creates an access and refresh token for the user
func (i *JWTIssuer) Issue(userID, email string) (ports.TokenPair, error) {
	now := i.now()
	accessExp := now.Add(i.accessTTL)

	access, err := i.sign(userID, email, TokenTypeAccess, now, accessExp)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := i.sign(userID, "", TokenTypeRefresh, now, now.Add(i.refreshTTL))
	if err != nil {
		return ports.TokenPair{}, err
	}

	return ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp.UTC(),
	}, nil
}

func (i *JWTIssuer) sign(userID, email, typ string, now, exp time.Time) (string, error) {
	claims := Claims{
		Email: email,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ParseAccess validates an access token and returns its claims
func (i *JWTIssuer) ParseAccess(token string) (*Claims, error) {
	return i.parse(token, TokenTypeAccess)
}

// ParseRefresh validates a refresh token and returns the user id
func (i *JWTIssuer) ParseRefresh(token string) (string, error) {
	claims, err := i.parse(token, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (i *JWTIssuer) parse(token, typ string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
