package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

// CatalogService serves provider profiles, their services and categories.
type CatalogService struct {
	db    *gorm.DB
	media MediaStore
	log   *slog.Logger
}

func NewCatalogService(db *gorm.DB, media MediaStore, log *slog.Logger) *CatalogService {
	return &CatalogService{db: db, media: media, log: log}
}

type ProfileUpdate struct {
	Bio      *string
	Location *string
}

type ServiceInput struct {
	CategoryID  uint
	Title       string
	Description string
	Price       decimal.Decimal
}

func (s *CatalogService) ListProviders() ([]models.ProviderProfile, error) {
	var profiles []models.ProviderProfile
	err := s.db.Preload("User").Preload("Services.Category").Order("rating DESC, id ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *CatalogService) GetProviderBySlug(slug string) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := s.db.Preload("User").Preload("Services.Category").Where("slug = ?", slug).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// MyProfile returns the provider profile of the principal.
func (s *CatalogService) MyProfile(p authz.Principal) (*models.ProviderProfile, error) {
	if !p.Can(authz.ProfileManage) {
		return nil, ErrForbidden
	}
	var profile models.ProviderProfile
	if err := s.db.Preload("User").Where("user_id = ?", p.UserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *CatalogService) UpdateProfile(p authz.Principal, in ProfileUpdate) (*models.ProviderProfile, error) {
	profile, err := s.MyProfile(p)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if len(updates) == 0 {
		return profile, nil
	}
	if err := s.db.Model(&models.ProviderProfile{}).Where("id = ?", profile.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	return profile, nil
}

// SetAvatar uploads a new avatar and removes the previous one.
func (s *CatalogService) SetAvatar(ctx context.Context, p authz.Principal, file *multipart.FileHeader) (*models.ProviderProfile, error) {
	profile, err := s.MyProfile(p)
	if err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}

	uploaded, err := s.media.UploadAvatar(ctx, file, profile.Slug)
	if err != nil {
		return nil, err
	}
	previous := profile.AvatarPublicID
	err = s.db.Model(&models.ProviderProfile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"avatar":           uploaded.SecureURL,
		"avatar_public_id": uploaded.PublicID,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}
	profile.Avatar = uploaded.SecureURL
	profile.AvatarPublicID = uploaded.PublicID
	if previous != "" {
		if err := s.media.Delete(ctx, previous); err != nil {
			s.log.Warn("failed to delete previous avatar", "public_id", previous, "error", err)
		}
	}
	return profile, nil
}

// ListServices returns all provider services, optionally within one category.
func (s *CatalogService) ListServices(categoryID uint) ([]models.ProviderService, error) {
	query := s.db.Preload("Category").Order("id ASC")
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	var services []models.ProviderService
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *CatalogService) CreateService(p authz.Principal, in ServiceInput) (*models.ProviderService, error) {
	if !p.Can(authz.ServiceManage) {
		return nil, ErrForbidden
	}
	if in.Price.IsNegative() {
		return nil, ErrInvalidAmount
	}
	profileID, err := providerProfileID(s.db, p.UserID)
	if err != nil {
		return nil, err
	}
	if profileID == 0 {
		return nil, ErrProviderNotFound
	}

	var category models.ServiceCategory
	if err := s.db.First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var count int64
	err = s.db.Model(&models.ProviderService{}).
		Where("provider_id = ? AND category_id = ? AND title = ?", profileID, category.ID, in.Title).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrServiceExists
	}

	service := models.ProviderService{
		ProviderID:  profileID,
		CategoryID:  category.ID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    category,
	}
	if err := s.db.Omit("Category").Create(&service).Error; err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return &service, nil
}

func (s *CatalogService) ListCategories() ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(p authz.Principal, name, description string) (*models.ServiceCategory, error) {
	if !p.Can(authz.CategoryManage) {
		return nil, ErrForbidden
	}
	var count int64
	if err := s.db.Model(&models.ServiceCategory{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}
	category := models.ServiceCategory{Name: name, Description: description}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}
