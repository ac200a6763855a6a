package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// maxUploadSize bounds a single uploaded file.
const maxUploadSize = 10 << 20 // 10MB

// UploadService stores uploaded files on disk under generated names and
// hands back the URL path they are served from.
type UploadService struct {
	dir string
}

// NewUploadService creates the upload directory if needed.
func NewUploadService(dir string) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &UploadService{dir: dir}, nil
}

// MaxSize returns the per-file upload limit in bytes.
func (s *UploadService) MaxSize() int64 {
	return maxUploadSize
}

// Save writes the uploaded file to disk and returns its retrievable URL path.
// The original extension is kept so clients can infer the content type.
func (s *UploadService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxUploadSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", header.Size, maxUploadSize)
	}

	name := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return "/uploads/" + name, nil
}

// Dir returns the directory uploads are stored in.
func (s *UploadService) Dir() string {
	return s.dir
}
