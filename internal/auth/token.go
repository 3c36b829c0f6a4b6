// Package auth はパスワード認証、JWT発行、リフレッシュトークン管理を提供する。
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
)

// Claims はアクセストークンのJWTクレーム。
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenIssuer はアクセストークン（JWT）の発行と検証を行う。
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
	clock     clock.Clock
}

// NewTokenIssuer はTokenIssuerを生成する。
func NewTokenIssuer(secret string, accessTTL time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		clock:     clk,
	}
}

// Issue は指定ユーザーのアクセストークンを発行する。
func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := i.clock.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse はアクセストークンを検証し、ユーザーIDを返す。
// 署名不正・期限切れの場合は認証エラーを返す。
func (i *TokenIssuer) Parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil || !token.Valid {
		return "", model.NewUnauthorizedError()
	}
	if claims.UserID == "" {
		return "", model.NewUnauthorizedError()
	}
	return claims.UserID, nil
}

// GenerateRefreshToken は暗号的に安全なリフレッシュトークンを生成する。
func GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashRefreshToken はリフレッシュトークンのハッシュ値を返す。
// DBには平文ではなくハッシュのみを保存する。
func HashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
