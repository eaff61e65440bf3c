package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aditwicaksono/warung-pos-api/models"
)

// ErrInvalidCredentials is returned on a failed login. It is
// deliberately identical for unknown usernames, wrong passwords and
// disabled accounts so the response does not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserCreateInput is the request for registering a user
type UserCreateInput struct {
	Username string
	Password string
	FullName *string
	Role     string
}

// CreateUser registers a user with a bcrypt-hashed password
func CreateUser(db *gorm.DB, input UserCreateInput) (*models.User, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, &InvalidInputError{Message: "username is required"}
	}
	if len(input.Password) < 8 {
		return nil, &InvalidInputError{Message: "password must be at least 8 characters"}
	}

	role := input.Role
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleAdmin && role != models.RoleStaff {
		return nil, &InvalidInputError{Message: "role must be 'admin' or 'staff'"}
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &DuplicateKeyError{Field: "username", Value: input.Username}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:       input.Username,
		HashedPassword: string(hashed),
		FullName:       input.FullName,
		Role:           role,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthenticateUser verifies a username/password pair against active users
func AuthenticateUser(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUser returns one user by ID
func GetUser(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: userID}
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns users with the total count
func ListUsers(db *gorm.DB, page, limit int) ([]models.User, int64, error) {
	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}

	var users []models.User
	if err := db.
		Order("username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UserPatch carries the fields of a partial user update
type UserPatch struct {
	Password *string
	FullName *string
	Role     *string
	IsActive *bool
}

// UpdateUser applies a field-by-field merge of the patch onto the user,
// rehashing the password when one is supplied.
func UpdateUser(db *gorm.DB, userID uint, patch UserPatch) (*models.User, error) {
	user, err := GetUser(db, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			return nil, &InvalidInputError{Message: "password must be at least 8 characters"}
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["hashed_password"] = string(hashed)
	}
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.Role != nil {
		if *patch.Role != models.RoleAdmin && *patch.Role != models.RoleStaff {
			return nil, &InvalidInputError{Message: "role must be 'admin' or 'staff'"}
		}
		updates["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetUser(db, userID)
}
