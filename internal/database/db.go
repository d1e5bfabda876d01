package database

import (
	"strings"
	"time"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB owns the single connection pool of the process. It is opened once at
// startup and closed on shutdown; stores borrow it.
type DB struct {
	*gorm.DB
	log *logrus.Logger
}

func gormConfig(log *logrus.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
		// parents may be deleted while children still point at them
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Open connects to postgres, retrying while the database is still starting.
func Open(dsn string, attempts int, log *logrus.Logger) (*DB, error) {
	return open(postgres.Open(dsn), attempts, 2*time.Second, log)
}

// OpenDialector is used by tests and tools that bring their own driver.
func OpenDialector(dialector gorm.Dialector, log *logrus.Logger) (*DB, error) {
	return open(dialector, 1, 0, log)
}

func open(dialector gorm.Dialector, attempts int, backoff time.Duration, log *logrus.Logger) (*DB, error) {
	var (
		gdb *gorm.DB
		err error
	)
	for i := 1; i <= attempts; i++ {
		log.Debugf("trying to connect to DB (attempt %d/%d)...", i, attempts)

		gdb, err = gorm.Open(dialector, gormConfig(log))
		if err == nil {
			log.Info("connected to DB successfully")
			break
		}

		log.WithError(err).Warn("failed to connect to DB")
		if i < attempts {
			time.Sleep(backoff)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to db after %d attempts", attempts)
	}

	return &DB{DB: gdb, log: log}, nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) Migrate() error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Asset{},
		&models.Project{},
		&models.Workpack{},
		&models.Flange{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to migrate")
	}
	return nil
}

// EnsureAdmin creates the admin account if no admin exists yet.
func (db *DB) EnsureAdmin(email, password string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return storageErr("check admin user", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash default admin password")
	}

	admin := models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Name:         "Administrator",
	}
	if err := db.Create(&admin).Error; err != nil {
		return storageErr("create default admin", err)
	}

	db.log.WithField("email", email).Info("created default admin user")
	return nil
}
