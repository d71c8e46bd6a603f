package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/internal/api/middleware"
	"jobly/internal/errcode"
)

const internalErrorMessage = "internal error"

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Internal(c *gin.Context)               { Error(c, http.StatusInternalServerError, internalErrorMessage) }

// respondError 把模型层错误映射为状态码；非预期错误只记录日志，响应体不泄露细节。
func respondError(c *gin.Context, err error) {
	status := errcode.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
		Internal(c)
		return
	}
	Error(c, status, err.Error())
}

// bindJSON 解析并校验请求体，失败时直接写出 400。
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, err.Error())
		return false
	}
	return true
}
