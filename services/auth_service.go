package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/random0602/DailyGlow/broker"
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"
	"github.com/random0602/DailyGlow/utils/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

type AuthServiceInterface interface {
	SignUp(db *database.Database, username, password string) (models.User, error)
	SignIn(db *database.Database, username, password string) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) SignUp(db *database.Database, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return models.User{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, fmt.Errorf("%w: password is too long", ErrValidation)
		}
		return models.User{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if count > 0 {
		tx.Rollback()
		return models.User{}, fmt.Errorf("%w: username %q is taken", ErrResourceExists, username)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, fmt.Errorf("%w: username %q is taken", ErrResourceExists, username)
		}
		return models.User{}, err
	}

	event, err := models.NewEvent(
		string(broker.UserCreated),
		"user",
		"create",
		user.ID.String(),
		map[string]interface{}{
			"user_id":  user.ID.String(),
			"username": user.Username,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	log.Printf("Registered user %s", user.ID)
	return user, nil
}

func (s *AuthService) SignIn(db *database.Database, username, password string) (string, error) {
	var user models.User
	if err := db.DB.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return token.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiration)
}

// ValidateToken uses the token utility to validate tokens
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims, err := token.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
