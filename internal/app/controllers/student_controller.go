package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/middleware"
	"github.com/dkaraca/coursehub/internal/pkg/helpers"
)

// StudentController handles staff-side account management endpoints
type StudentController struct {
	userService *services.UserService
}

// NewStudentController creates a new StudentController
func NewStudentController(userService *services.UserService) *StudentController {
	return &StudentController{userService: userService}
}

// List returns a page of student profiles. Staff only.
// GET /api/v1/students
func (ctrl *StudentController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)

	resp, err := ctrl.userService.ListStudents(c.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Get returns a single student profile. Staff only.
// GET /api/v1/students/:id
func (ctrl *StudentController) Get(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.userService.GetStudent(c.Request.Context(), viewer, studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Delete removes a student's account and everything hanging off it.
// Superuser only.
// DELETE /api/v1/students/:id
func (ctrl *StudentController) Delete(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteStudent(c.Request.Context(), viewer, studentID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Student deleted"}})
}

// UpdateRole changes an account's role. Superuser only; SUPERUSER is not
// grantable.
// PUT /api/v1/users/:id/role
func (ctrl *StudentController) UpdateRole(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	err := ctrl.userService.ChangeRole(c.Request.Context(), viewer, userID, models.RoleType(req.Role))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Role updated"}})
}
