package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dkaraca/coursehub/internal/pkg/logger"
)

// LocalStorage stores files on the local filesystem. Course uploads land
// under <basePath>/<course-title-slug>/<original filename>; a colliding
// filename gets a short unique suffix instead of overwriting.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Slug turns an arbitrary name (typically a course title) into a safe
// directory component.
func Slug(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			// A run of separators or dropped characters becomes one dash.
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	s := b.String()
	if s == "" {
		s = "untitled"
	}
	return s
}

// sanitizeFilename strips any path components from an uploaded filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return uuid.New().String()
	}
	return name
}

// SaveContent stores raw content under subPath with the given filename and
// returns the path relative to the storage root.
func (ls *LocalStorage) SaveContent(r io.Reader, subPath, filename string) (string, error) {
	dir := ls.basePath
	if subPath != "" {
		dir = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	filename = sanitizeFilename(filename)
	dstPath := filepath.Join(dir, filename)

	// Keep the original filename; on collision, prefix a short unique tag.
	if _, err := os.Stat(dstPath); err == nil {
		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		filename = fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)
		dstPath = filepath.Join(dir, filename)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relPath := filename
	if subPath != "" {
		relPath = filepath.Join(subPath, filename)
	}

	logger.Info().Str("path", relPath).Msg("File saved")
	return relPath, nil
}

// SaveFileWithPath stores an uploaded multipart file under subPath.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return ls.SaveContent(file, subPath, fileHeader.Filename)
}

// Open opens a stored file for reading.
func (ls *LocalStorage) Open(relPath string) (io.ReadCloser, error) {
	f, err := os.Open(ls.FullPath(relPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return f, nil
}

// DeleteFile removes a stored file. A missing file is treated as already
// deleted.
func (ls *LocalStorage) DeleteFile(relPath string) error {
	if relPath == "" {
		return nil
	}

	physicalPath := ls.FullPath(relPath)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// FullPath returns the absolute filesystem path for a stored file. Path
// traversal in relPath is neutralized against the storage root.
func (ls *LocalStorage) FullPath(relPath string) string {
	clean := filepath.Clean("/" + relPath)
	return filepath.Join(ls.basePath, clean)
}
