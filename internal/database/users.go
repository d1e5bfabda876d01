package database

import (
	"context"
	"strings"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore backs register/login. The workflow never depends on it.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db.DB}
}

func (s *UserStore) Register(ctx context.Context, u models.User, password string) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return models.User{}, storageErr("check user email", err)
	}
	if count > 0 {
		return models.User{}, errors.Wrapf(ErrUserExists, "user %q", u.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "hash password")
	}
	u.ID = 0
	u.PasswordHash = string(hash)

	if err := db.Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return models.User{}, errors.Wrapf(ErrUserExists, "user %q", u.Email)
		}
		return models.User{}, storageErr("create user", err)
	}
	return u, nil
}

// Authenticate returns ErrInvalidCredentials for both unknown email and wrong password.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, storageErr("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserStore) Get(ctx context.Context, id uint) (models.User, error) {
	return getByID[models.User](s.db.WithContext(ctx), "user", id)
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("email asc").Find(&users).Error; err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

func (s *UserStore) Delete(ctx context.Context, id uint) error {
	return deleteByID[models.User](s.db.WithContext(ctx), "user", id)
}
