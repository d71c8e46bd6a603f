package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobly/internal/api/middleware"
	"jobly/internal/errcode"
	"jobly/internal/store"
)

const loginRateKeyPrefix = "rate:login:"

// AuthHandler 处理登录换取令牌与自助注册。
type AuthHandler struct {
	users                 UserStore
	tokens                TokenIssuer
	rate                  RateCounter
	loginRateLimitPerHour int
	now                   func() time.Time
}

// NewAuthHandler 构造认证处理器。rate 为 nil 时不做登录限流。
func NewAuthHandler(users UserStore, tokens TokenIssuer, rate RateCounter, loginRateLimitPerHour int) *AuthHandler {
	return &AuthHandler{
		users:                 users,
		tokens:                tokens,
		rate:                  rate,
		loginRateLimitPerHour: loginRateLimitPerHour,
		now:                   time.Now,
	}
}

type tokenRequest struct {
	Username string `json:"username" binding:"required,min=1,max=25"`
	Password string `json:"password" binding:"required,min=1"`
}

// Token 校验用户名与口令并返回 JWT。
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if !bindJSON(c, &req) {
		return
	}

	logger := middleware.LoggerFromContext(c).With(slog.String("username", req.Username))

	if h.limited(c, req.Username, logger) {
		Error(c, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errcode.ErrUnauthorized) {
			logger.Info("login failed")
		}
		respondError(c, err)
		return
	}

	token, err := h.tokens.IssueToken(user.Username, user.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// limited 按 IP+用户名 每小时计数。Redis 不可用时放行。
func (h *AuthHandler) limited(c *gin.Context, username string, logger *slog.Logger) bool {
	if h.rate == nil || h.loginRateLimitPerHour <= 0 {
		return false
	}

	key := loginRateKeyPrefix + c.ClientIP() + ":" + strings.ToLower(username) + ":" + h.now().UTC().Format("2006010215")
	count, err := incrWithTTL(c.Request.Context(), h.rate, key, time.Hour)
	if err != nil {
		logger.Warn("login rate counter unavailable", slog.Any("error", err))
		return false
	}
	return count > int64(h.loginRateLimitPerHour)
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=72"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,max=60"`
}

// Register 自助注册普通用户并返回令牌。自助注册无法获得管理员身份。
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), store.NewUser{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.IssueToken(user.Username, user.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("user registered", slog.String("username", user.Username))
	c.JSON(http.StatusCreated, gin.H{"token": token})
}
