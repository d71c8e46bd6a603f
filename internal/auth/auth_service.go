package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService 负责处理密码哈希、JWT 生成与校验。
type AuthService struct {
	secretKey  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// TokenClaims 表示 JWT 中的业务字段，便于中间件读取用户信息。
type TokenClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// NewAuthService 构造服务实例。
func NewAuthService(secretKey string, tokenTTL time.Duration, bcryptCost int) (*AuthService, error) {
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if tokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &AuthService{
		secretKey:  []byte(secretKey),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}, nil
}

// HashPassword hashes with the configured work factor.
func (s *AuthService) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

// CheckPasswordHash 校验密码是否匹配哈希。
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	return CheckPasswordHash(password, hash)
}

// IssueToken signs a token carrying the identity of the given user.
func (s *AuthService) IssueToken(username string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken 解析并验证 JWT。
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// Identity converts verified claims into the identity policies are checked against.
func (c *TokenClaims) Identity() *Identity {
	return &Identity{Username: c.Username, IsAdmin: c.IsAdmin}
}

// TokenTTL 暴露令牌有效期。
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
