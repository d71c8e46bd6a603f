package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/internal/api/middleware"
	"jobly/internal/auth"
	"jobly/internal/store"
)

const generatedPasswordBytes = 12

// UserHandler 处理用户资源与职位申请。
type UserHandler struct {
	users  UserStore
	tokens TokenIssuer
}

func NewUserHandler(users UserStore, tokens TokenIssuer) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

type createUserRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Create 由管理员添加用户（可为管理员），密码随机生成，返回用户与其令牌。
// 这不是注册接口，注册见 /auth/register。
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}

	password, err := auth.GeneratePassword(generatedPasswordBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), store.NewUser{
		Username:  req.Username,
		Password:  password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
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

	middleware.LoggerFromContext(c).Info("user created by admin",
		slog.String("created_username", user.Username),
		slog.Bool("is_admin", user.IsAdmin),
	)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	var req store.UserUpdate
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if err := h.users.Remove(c.Request.Context(), username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// Apply 记录用户对职位的申请状态，状态来自 ?state=，重复提交会覆盖原状态。
func (h *UserHandler) Apply(c *gin.Context) {
	jobID, err := jobIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	app, err := h.users.ApplyToJob(c.Request.Context(), c.Param("username"), jobID, c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": app.JobID, "state": app.State})
}
