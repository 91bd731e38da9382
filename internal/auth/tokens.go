package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	UserID    string `json:"userId"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var errWrongTokenType = errors.New("wrong token type")

// TokenManager signs access and refresh tokens with separate keys.
type TokenManager struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(accessKey, refreshKey string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessKey:  []byte(accessKey),
		refreshKey: []byte(refreshKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) GenerateAccessToken(userID string) (string, error) {
	return m.sign(userID, tokenTypeAccess, m.accessKey, m.accessTTL)
}

func (m *TokenManager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(userID, tokenTypeRefresh, m.refreshKey, m.refreshTTL)
}

// IssueTokens returns a fresh access/refresh pair for userID.
func (m *TokenManager) IssueTokens(userID string) (AuthTokens, error) {
	access, err := m.GenerateAccessToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, err := m.GenerateRefreshToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) VerifyAccessToken(raw string) (*TokenClaims, error) {
	return m.verify(raw, tokenTypeAccess, m.accessKey)
}

func (m *TokenManager) VerifyRefreshToken(raw string) (*TokenClaims, error) {
	return m.verify(raw, tokenTypeRefresh, m.refreshKey)
}

func (m *TokenManager) sign(userID, typ string, key []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &TokenClaims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return s, nil
}

func (m *TokenManager) verify(raw, typ string, key []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.TokenType != typ || claims.UserID == "" {
		return nil, errWrongTokenType
	}
	return claims, nil
}
