package filestorage

import (
	"io"
	"mime/multipart"
)

// Storage defines the blob store operations used by the file service.
type Storage interface {
	// SaveFileWithPath stores an uploaded file under a subdirectory and
	// returns the path relative to the storage root.
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveContent stores raw content under subPath with the given filename
	// and returns the relative path.
	SaveContent(r io.Reader, subPath, filename string) (string, error)

	// Open opens a stored file for reading.
	Open(relPath string) (io.ReadCloser, error)

	// DeleteFile removes a stored file. Deleting a missing file is not an
	// error.
	DeleteFile(relPath string) error

	// FullPath returns the absolute filesystem path for a stored file.
	FullPath(relPath string) string
}
