package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/middleware"
)

// AuthController handles registration, login and token endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles student self-registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	user, err := ctrl.authService.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{Data: dto.RegisterResponse{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.RoleType),
	}})
}

// RegisterStaff handles staff self-registration
// POST /api/v1/auth/register-staff
func (ctrl *AuthController) RegisterStaff(c *gin.Context) {
	var req dto.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	user, err := ctrl.authService.RegisterStaff(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{Data: dto.RegisterResponse{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.RoleType),
	}})
}

// Login exchanges credentials for a token pair
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	tokens, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: tokens})
}

// RefreshToken rotates a refresh token
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	tokens, err := ctrl.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: tokens})
}

// Logout revokes a refresh token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Logged out"}})
}
