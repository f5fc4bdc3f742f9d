// Package controllers holds the Gin HTTP handlers. Controllers bind and
// validate requests, delegate to services and map errors through
// middleware.HandleAPIError.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/middleware"
)

// Controllers holds all controller instances
type Controllers struct {
	Auth       *AuthController
	Course     *CourseController
	Enrollment *EnrollmentController
	File       *FileController
	Student    *StudentController
}

// NewControllers creates all controllers
func NewControllers(svcs *services.Services) *Controllers {
	return &Controllers{
		Auth:       NewAuthController(svcs.Auth),
		Course:     NewCourseController(svcs.Course),
		Enrollment: NewEnrollmentController(svcs.Enrollment),
		File:       NewFileController(svcs.File),
		Student:    NewStudentController(svcs.User),
	}
}

// parseIDParam reads a numeric path parameter, writing a 400 on garbage.
// The second return is false when the response has already been written.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name+" parameter")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// currentViewer pulls the authenticated caller out of the context; on
// routes behind JWTAuth it always succeeds.
func currentViewer(c *gin.Context) (services.Viewer, bool) {
	viewer, ok := middleware.CurrentViewer(c)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
	}
	return viewer, ok
}
