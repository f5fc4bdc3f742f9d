package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/policy"
	"github.com/dkaraca/coursehub/internal/pkg/apperrors"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
)

// HandleAPIError maps a service error onto the HTTP error taxonomy and
// writes the response. Controllers call this for every error path so the
// mapping lives in exactly one place.
func HandleAPIError(c *gin.Context, err error) {
	var violation *policy.Violation
	if errors.As(err, &violation) {
		status := http.StatusBadRequest
		if violation.Reason == policy.AlreadyEnrolled {
			status = http.StatusConflict
		}
		detail := dto.NewErrorDetail(dto.ErrorCodePolicyViolation, violation.Message).
			WithDetails(string(violation.Reason))
		c.JSON(status, dto.NewErrorResponse(detail))
		return
	}

	var custom *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrEnrollmentNotFound),
		errors.Is(err, apperrors.ErrFileNotFound):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrStudentIDAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message)
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrInvalidStudentID),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidEmail),
		errors.Is(err, apperrors.ErrInvalidPassword),
		errors.Is(err, apperrors.ErrBadRequest):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrNotAStudent),
		errors.Is(err, apperrors.ErrAccountDisabled):
		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, message)
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrTokenExpired):
		detail := dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenNotFound),
		errors.Is(err, apperrors.ErrTokenRevoked):
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, message)
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An internal error occurred")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	}
}

// HandleBindingError writes a 400 for a failed request binding
func HandleBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
