package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/middleware"
)

// MaxUploadSize caps course file uploads at 50 MiB
const MaxUploadSize = 50 << 20

// FileController handles course file endpoints
type FileController struct {
	fileService *services.FileService
}

// NewFileController creates a new FileController
func NewFileController(fileService *services.FileService) *FileController {
	return &FileController{fileService: fileService}
}

// Upload stores a file in a course. The multipart body carries the blob
// under "file" plus title/description form fields.
// POST /api/v1/courses/:id/files
func (ctrl *FileController) Upload(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UploadFileRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "A file part named 'file' is required")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	if fileHeader.Size > MaxUploadSize {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed,
			fmt.Sprintf("File exceeds the %d MiB limit", MaxUploadSize>>20))
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	resp, err := ctrl.fileService.Upload(c.Request.Context(), viewer, courseID, &req, fileHeader)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// Download streams a stored file to the caller
// GET /api/v1/files/:id/download
func (ctrl *FileController) Download(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.fileService.Download(c.Request.Context(), viewer, fileID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	defer result.Content.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", result.FileName),
	}
	c.DataFromReader(http.StatusOK, result.FileSize, result.MimeType, result.Content, extraHeaders)
}

// Delete removes a file record and its blob
// DELETE /api/v1/files/:id
func (ctrl *FileController) Delete(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.fileService.Delete(c.Request.Context(), viewer, fileID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "File deleted"}})
}
