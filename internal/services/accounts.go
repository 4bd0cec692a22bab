package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"MimiPlatform/internal/models"
)

type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
	Role     models.Role
}

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates the user together with a wallet and, for providers,
// a provider profile.
func (s *AccountService) Register(in RegisterInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.checkUnique(in.Username, in.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: string(hashed),
		Role:     in.Role,
	}
	if err := s.create(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// create inserts the user with its wallet and profile. A concurrent
// registration that wins the unique index is reported like checkUnique does.
func (s *AccountService) create(user *models.User) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Wallet{UserID: user.ID}).Error; err != nil {
			return err
		}
		if user.IsProvider() {
			profileSlug, err := uniqueSlug(tx, user.Username)
			if err != nil {
				return err
			}
			profile := models.ProviderProfile{UserID: user.ID, Slug: profileSlug}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if uerr := s.checkUnique(user.Username, user.Email); uerr != nil {
			return uerr
		}
	}
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

// EnsureAdmin creates a staff account once; it reports whether one was created.
func (s *AccountService) EnsureAdmin(username, email, password string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin := models.User{
		Username:           username,
		Email:              email,
		Password:           string(hashed),
		Role:               models.RoleAdmin,
		IsStaff:            true,
		VerificationStatus: true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&models.Wallet{UserID: admin.ID}).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Authenticate checks a username/password pair.
func (s *AccountService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AccountService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountService) checkUnique(username, email string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// uniqueSlug slugifies the username and appends a number when the slug is taken.
func uniqueSlug(tx *gorm.DB, username string) (string, error) {
	base := slug.Make(username)
	if base == "" {
		base = "provider"
	}

	exists := func(candidate string) (bool, error) {
		var count int64
		err := tx.Model(&models.ProviderProfile{}).Where("slug = ?", candidate).Count(&count).Error
		return count > 0, err
	}
	for i := 1; i < 100; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return fmt.Sprintf("%s-%d", base, time.Now().Unix()%10000+rand.Int63n(1000)), nil
}
