package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/services"
	"github.com/academy-edu/auth-service/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService, logger utils.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
	}
}

// Register creates a new user account
// @Summary Register account
// @Description Creates a user with the given credentials and exactly one role
// @Tags account
// @Accept json
// @Produce json
// @Param account body models.RegisterRequest true "Registration data"
// @Success 200 {object} models.RegisterResponse
// @Failure 400 {array} string "Validation error messages"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /account/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, []string{"invalid request payload"})
		return
	}

	h.LogRequest(c, "Registering user", "username", req.Username)

	resp, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		var regErr *services.RegistrationError
		if errors.As(err, &regErr) {
			c.JSON(http.StatusBadRequest, regErr.Messages)
			return
		}

		h.LogError(c, err, "Registration failed unexpectedly", "username", req.Username)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Login verifies credentials and issues a bearer token
// @Summary Log in
// @Description Verifies username/password and returns a signed bearer token
// @Tags account
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.LoginErrorResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /account/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
		})
		return
	}

	resp, err := h.accountService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.LoginErrorResponse{
				LoginError: "Please check the login credentials - invalid username/password was entered",
			})
			return
		}

		// Infrastructure failures (including a user with no role) are logged
		// with full detail; the caller only sees an opaque error.
		h.LogError(c, err, "Login failed unexpectedly", "username", req.Username)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	h.LogRequest(c, "User logged in", "username", resp.Username, "role", resp.UserRole)
	c.JSON(http.StatusOK, resp)
}
