package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"document-improver/internal/domain"
	"document-improver/internal/errors"
	"document-improver/internal/middleware"
)

// mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockService) Login(email, password string) (*domain.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockService) GetUserByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockService) DeactivateUser(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	return router
}

// TestRegister_Success tests successful user registration
func TestRegister_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("Register", mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" && u.Name == "New User"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.User).ID = "user-1"
	})

	router.POST("/register", handler.Register)

	body, _ := json.Marshal(FormRegister{Name: "New User", Email: "new@example.com", Password: "secret123"})
	req := httptest.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

// TestRegister_InvalidEmail tests registration with a malformed email
func TestRegister_InvalidEmail(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	router.POST("/register", handler.Register)

	body, _ := json.Marshal(FormRegister{Name: "X", Email: "not-an-email", Password: "secret123"})
	req := httptest.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestLogin_WrongPassword tests login failure propagation
func TestLogin_WrongPassword(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("Login", "user@example.com", "wrong").
		Return(nil, errors.UnprocessableEntity("Wrong password", nil))

	router.POST("/login", handler.Login)

	body, _ := json.Marshal(FormLogin{Email: "user@example.com", Password: "wrong"})
	req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockService.AssertExpectations(t)
}

// TestGetProfile_Success tests fetching the authenticated user
func TestGetProfile_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	user := &domain.User{ID: "user-1", Name: "User", Email: "user@example.com", IsActive: true}
	mockService.On("GetUserByID", "user-1").Return(user, nil)

	router.GET("/profile", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.GetProfile(c)
	})

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
