package services

import (
	"StockDash/models"
	"StockDash/utils"
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordHasher abstracts the password hashing strategy so the
// algorithm and work factor stay configuration.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Compare(hash, raw string) bool
}

// BcryptHasher hashes with bcrypt at a configurable cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(raw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = 12
	}
	b, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare is constant-time with respect to the password bytes; bcrypt
// handles that internally.
func (h BcryptHasher) Compare(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// UserService owns user records: registration, lookup, password
// verification, favorites and login bookkeeping.
type UserService struct {
	DB     *gorm.DB
	Hasher PasswordHasher
}

// NewUserService initializes UserService with a database handle and hasher.
func NewUserService(db *gorm.DB, hasher PasswordHasher) *UserService {
	return &UserService{DB: db, Hasher: hasher}
}

// Register creates a new user. Emails are normalized to lowercase and
// must be unique; a duplicate yields a conflict error.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return nil, utils.NewCustomError(http.StatusInternalServerError, "Failed to create user")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Favorites:    []string{},
		Profile:      models.DefaultProfile(),
		IsActive:     true,
	}

	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("Email already registered")
		}
		log.Printf("Error creating user: %v", err)
		return nil, utils.NewCustomError(http.StatusInternalServerError, "Failed to create user")
	}

	return user, nil
}

// FindByEmail looks up a user by normalized email. Returns (nil, nil)
// when no user exists.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("Error finding user by email: %v", err)
		return nil, utils.NewCustomError(http.StatusInternalServerError, "Failed to look up user")
	}
	return &user, nil
}

// FindByID looks up a user by id. Returns (nil, nil) when absent.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("Error finding user by id: %v", err)
		return nil, utils.NewCustomError(http.StatusInternalServerError, "Failed to look up user")
	}
	return &user, nil
}

// VerifyPassword checks raw against the stored hash.
func (s *UserService) VerifyPassword(user *models.User, raw string) bool {
	return s.Hasher.Compare(user.PasswordHash, raw)
}

// RecordLogin updates the login statistics. The counter is incremented
// in the database so concurrent logins for the same user never lose an
// increment; loginCount only ever grows.
func (s *UserService) RecordLogin(ctx context.Context, user *models.User) error {
	now := time.Now()

	err := s.DB.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"last_login":  now,
		"login_count": gorm.Expr("login_count + ?", 1),
	}).Error
	if err != nil {
		log.Printf("Error recording login for %s: %v", user.Email, err)
		return utils.NewCustomError(http.StatusInternalServerError, "Failed to record login")
	}

	user.LastLogin = &now
	user.LoginCount++
	return nil
}

// AddFavorite adds ticker to the user's favorites. Idempotent: when the
// ticker is already present nothing is written and added is false.
func (s *UserService) AddFavorite(ctx context.Context, user *models.User, ticker string) (added bool, err error) {
	if !utils.IsValidTicker(ticker) {
		return false, utils.NewValidationError("Invalid ticker symbol")
	}
	if user.HasFavorite(ticker) {
		return false, nil
	}

	user.Favorites = append(user.Favorites, ticker)
	if err := s.DB.WithContext(ctx).Model(user).Update("favorites", user.Favorites).Error; err != nil {
		log.Printf("Error adding favorite %s for %s: %v", ticker, user.Email, err)
		return false, utils.NewCustomError(http.StatusInternalServerError, "Failed to update favorites")
	}
	return true, nil
}

// RemoveFavorite removes ticker from the user's favorites. Removed is
// false when the ticker was not present.
func (s *UserService) RemoveFavorite(ctx context.Context, user *models.User, ticker string) (removed bool, err error) {
	if !user.HasFavorite(ticker) {
		return false, nil
	}

	kept := make([]string, 0, len(user.Favorites))
	for _, f := range user.Favorites {
		if f != ticker {
			kept = append(kept, f)
		}
	}
	user.Favorites = kept

	if err := s.DB.WithContext(ctx).Model(user).Update("favorites", user.Favorites).Error; err != nil {
		log.Printf("Error removing favorite %s for %s: %v", ticker, user.Email, err)
		return false, utils.NewCustomError(http.StatusInternalServerError, "Failed to update favorites")
	}
	return true, nil
}

// UpdateProfile replaces the user's preferences after validation.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, profile models.Profile) error {
	user.Profile = profile
	if err := s.DB.WithContext(ctx).Model(user).Update("profile", user.Profile).Error; err != nil {
		log.Printf("Error updating profile for %s: %v", user.Email, err)
		return utils.NewCustomError(http.StatusInternalServerError, "Failed to update profile")
	}
	return nil
}
