package services

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/coalhq/coal-server/internal/config"
	"github.com/google/uuid"
)

// UploadService is the blob storage collaborator: it accepts an image
// upload, writes it under the configured directory and returns a stable
// reference path. Callers store only the reference, never the bytes.
type UploadService struct {
	cfg *config.StorageConfig
}

func NewUploadService(cfg *config.StorageConfig) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveImage stores an uploaded image under a uuid filename and returns the
// reference path relative to the upload directory.
func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", invalidArgument("file must be an image")
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext

	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// PublicURL resolves a stored reference to the path clients fetch it from.
func (s *UploadService) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	return strings.TrimSuffix(s.cfg.BaseURL, "/") + "/" + ref
}
