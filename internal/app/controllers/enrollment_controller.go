package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/middleware"
	"github.com/dkaraca/coursehub/internal/pkg/helpers"
)

// EnrollmentController handles enrollment endpoints
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll enrolls the calling student in a course
// POST /api/v1/courses/:id/enroll
func (ctrl *EnrollmentController) Enroll(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.enrollmentService.Enroll(c.Request.Context(), viewer, courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// MyCourses lists the calling student's active enrollments
// GET /api/v1/my-courses
func (ctrl *EnrollmentController) MyCourses(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	resp, err := ctrl.enrollmentService.MyCourses(c.Request.Context(), viewer)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// ListByCourse returns a course's active roster. Staff only.
// GET /api/v1/courses/:id/enrollments
func (ctrl *EnrollmentController) ListByCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)

	resp, err := ctrl.enrollmentService.ListByCourse(c.Request.Context(), courseID, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Drop deactivates an enrollment. Staff only.
// DELETE /api/v1/enrollments/:id
func (ctrl *EnrollmentController) Drop(c *gin.Context) {
	enrollmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.enrollmentService.Drop(c.Request.Context(), enrollmentID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Enrollment dropped"}})
}
