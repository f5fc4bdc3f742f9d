package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/middleware"
	"github.com/dkaraca/coursehub/internal/pkg/helpers"
)

// CourseController handles course browsing and staff management endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List returns a page of courses with the caller's enrollment flags.
// Students see active courses only; staff may pass includeInactive=true.
// GET /api/v1/courses?page=&size=&difficulty=&q=&includeInactive=
func (ctrl *CourseController) List(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(c)
	filter := repositories.CourseFilter{
		Difficulty:      c.Query("difficulty"),
		Query:           c.Query("q"),
		IncludeInactive: c.Query("includeInactive") == "true",
	}

	resp, err := ctrl.courseService.List(c.Request.Context(), viewer, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Get returns a course with its files when the caller may see them
// GET /api/v1/courses/:id
func (ctrl *CourseController) Get(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.courseService.GetDetail(c.Request.Context(), viewer, courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Create creates a course. Staff only.
// POST /api/v1/courses
func (ctrl *CourseController) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := ctrl.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// Update replaces a course's fields. Staff only.
// PUT /api/v1/courses/:id
func (ctrl *CourseController) Update(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	resp, err := ctrl.courseService.Update(c.Request.Context(), courseID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Delete removes a course with its enrollments and files. Staff only.
// DELETE /api/v1/courses/:id
func (ctrl *CourseController) Delete(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.courseService.Delete(c.Request.Context(), courseID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Course deleted"}})
}
