package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"

	"yatube/db"
	"yatube/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register создает пользователя с уникальным username
func (us *UserService) Register(ctx context.Context, username, password, firstName, lastName string) (*models.User, error) {
	var exists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&exists).Error
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrUserExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Password:  passwordHash,
	}
	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login проверяет пароль и выдает новый токен сессии, отзывая старые
func (us *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !verifyPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	if err := us.Logout(ctx, user.ID); err != nil {
		return "", nil, err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Create(&models.UserToken{
		UserID: user.ID,
		Token:  token,
	}).Error
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Logout отзывает все токены пользователя
func (us *UserService) Logout(ctx context.Context, userID int64) error {
	return db.GetWriteDB(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserToken{}).Error
}

// UserByToken возвращает владельца токена сессии
func (us *UserService) UserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var row models.UserToken
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, row.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
