package user

import (
	"document-improver/auth"
	"document-improver/internal/domain"
	"document-improver/internal/errors"
	"document-improver/redis"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for users
type Handler struct {
	service Service
}

// NewHandler creates a new user handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// FormLogin represents login form data
type FormLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FormRegister represents registration form data
type FormRegister struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles user registration
func (h *Handler) Register(c *gin.Context) {
	var form FormRegister
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user := &domain.User{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		IsActive: true,
	}

	if err := h.service.Register(user); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToSafeUser()})
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user, err := h.service.Login(form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	// Register token so the auth middleware accepts it until logout
	if redis.RedisClient != nil {
		redis.RedisClient.Set(redis.Ctx, token, user.ID, 3*24*time.Hour)
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToSafeUser(),
	})
}

// Logout handles user logout
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString("jwt_token")
	if token != "" && redis.RedisClient != nil {
		redis.RedisClient.Del(redis.Ctx, token)
	}
	c.Status(http.StatusNoContent)
}

// GetProfile handles getting the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.Error(errors.Unauthorized("user not found", nil))
		return
	}

	user, err := h.service.GetUserByID(userID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ToSafeUser())
}
