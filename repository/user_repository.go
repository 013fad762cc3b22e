package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/mforum/models"
)

// UserRepository is the identity store. Uniqueness of username and email is enforced by
// unique indexes, so concurrent registrations cannot both succeed.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at int64) error
	// UpdateAvatar points the user at a new avatar asset and returns the reference it replaced.
	UpdateAvatar(ctx context.Context, id uint, avatar AvatarUpdate) (previousRef string, err error)
}

// AvatarUpdate carries the avatar columns written on upload.
type AvatarUpdate struct {
	Ref  string
	URL  string
	Type string
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		LastLogin:    time.Now().UnixMilli(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateField(err)
		}
		return nil, persistenceError("create user", err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "find user by username")
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "find user by id")
	}
	return &user, nil
}

// UpdateLastLogin stamps the login time. The row count is not checked: mysql reports zero
// affected rows when the stored value is already equal.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at int64) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
	if err != nil {
		return persistenceError("update last login", err)
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uint, avatar AvatarUpdate) (string, error) {
	var previous string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error; err != nil {
			return err
		}
		previous = user.AvatarRef
		return tx.Model(&user).Updates(map[string]interface{}{
			"avatar_ref":  avatar.Ref,
			"avatar_url":  avatar.URL,
			"avatar_type": avatar.Type,
		}).Error
	})
	if err != nil {
		return "", notFoundOr(err, ErrUserNotFound, "update avatar")
	}
	return previous, nil
}

func notFoundOr(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return persistenceError(op, err)
}
