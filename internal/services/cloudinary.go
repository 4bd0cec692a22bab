package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"MimiPlatform/internal/config"
)

const avatarFolder = "mimi/avatars"

var allowedAvatarFormats = []string{"jpg", "jpeg", "png", "webp"}

// MediaStore uploads and deletes provider avatars.
type MediaStore interface {
	UploadAvatar(ctx context.Context, file *multipart.FileHeader, owner string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Bytes     int    `json:"bytes"`
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

// NewMediaStore returns nil when Cloudinary is not configured; the avatar
// endpoint then answers with ErrMediaUnavailable.
func NewMediaStore(cfg config.MediaConfig, log *slog.Logger) (MediaStore, error) {
	if !cfg.Configured() {
		log.Warn("Cloudinary credentials not set, avatar uploads are disabled")
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	log.Info("media storage initialized", "provider", "cloudinary", "cloud", cfg.CloudName)
	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) UploadAvatar(ctx context.Context, file *multipart.FileHeader, owner string) (*UploadResult, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !allowedFormat(ext) {
		return nil, fmt.Errorf("unsupported image format %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         avatarFolder,
		PublicID:       fmt.Sprintf("%s_%d", owner, time.Now().Unix()),
		ResourceType:   "image",
		AllowedFormats: allowedAvatarFormats,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, errors.New(result.Error.Message)
	}

	return &UploadResult{
		SecureURL: result.SecureURL,
		PublicID:  result.PublicID,
		Format:    result.Format,
		Bytes:     result.Bytes,
	}, nil
}

func (s *CloudinaryService) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from Cloudinary: %w", err)
	}
	return nil
}

func allowedFormat(ext string) bool {
	for _, f := range allowedAvatarFormats {
		if f == ext {
			return true
		}
	}
	return false
}
