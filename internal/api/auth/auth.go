package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"answerhub/internal/model"
	"answerhub/internal/usecase"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler 提供注册、登录与邮箱激活接口。
type Handler struct {
	db     *gorm.DB
	auth   *usecase.AuthUsecase
	logger *slog.Logger
}

// NewHandler 创建 Auth Handler。
func NewHandler(db *gorm.DB, auth *usecase.AuthUsecase, logger *slog.Logger) *Handler {
	return &Handler{
		db:     db,
		auth:   auth,
		logger: logger,
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	IsActive  bool    `json:"is_active"`
	LastLogin *string `json:"last_login,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func toUserResponse(user *model.User) userResponse {
	resp := userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if user.LastLogin != nil {
		formatted := user.LastLogin.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.LastLogin = &formatted
	}
	return resp
}

// Register 创建新用户（未激活状态）。
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), h.db, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login 校验凭证并返回访问令牌。
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), h.db, req.Email, req.Password)
	if err != nil {
		h.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// SendEmailCode 为未激活用户下发邮箱验证码。
func (h *Handler) SendEmailCode(c *gin.Context) {
	email := c.Param("email")

	if err := h.auth.SendEmailCode(c.Request.Context(), h.db, email); err != nil {
		h.abortError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "email code sent successfully"})
}

// VerifyEmail 校验验证码并激活用户。
func (h *Handler) VerifyEmail(c *gin.Context) {
	email := c.Param("email")
	code := c.Param("code")

	if err := h.auth.VerifyEmail(c.Request.Context(), h.db, email, code); err != nil {
		h.abortError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "email verified successfully"})
}

// Me 返回当前令牌对应的用户。
func (h *Handler) Me(c *gin.Context) {
	token := c.GetString("token")

	user, err := h.auth.GetCurrent(c.Request.Context(), h.db, token)
	if err != nil {
		h.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) abortError(c *gin.Context, err error) {
	var ue *usecase.Error
	if errors.As(err, &ue) {
		c.JSON(ue.Status, gin.H{"error": ue.Message})
		return
	}
	if h.logger != nil {
		h.logger.Error("auth request failed", slog.String("error", err.Error()))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
