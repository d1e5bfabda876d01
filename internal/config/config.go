package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBDSN             string `env:"DB_DSN"`
	DBConnectAttempts int    `env:"DB_CONNECT_ATTEMPTS" envDefault:"10"`
	ServerPort        string `env:"SERVER_PORT" envDefault:"8080"`
	SessionSecret     string `env:"SESSION_SECRET"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`

	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`

	// number of torque passes that make up a complete round (1..3)
	RequiredPasses int `env:"REQUIRED_PASSES" envDefault:"3"`

	AuthRequired bool     `env:"AUTH_REQUIRED" envDefault:"false"`
	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@flangeqc.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"Admin123!"`

	logger *logrus.Logger
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.logger = newLogger(cfg.LogrusLevel())
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return errors.New("DB_DSN is not set")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	if c.RequiredPasses < 1 || c.RequiredPasses > 3 {
		return errors.Errorf("REQUIRED_PASSES must be between 1 and 3, got %d", c.RequiredPasses)
	}
	if c.MaxUploadSize <= 0 {
		return errors.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	if c.DBConnectAttempts < 1 {
		c.DBConnectAttempts = 1
	}
	return nil
}

func (c *Config) Logger() *logrus.Logger {
	if c.logger == nil {
		c.logger = newLogger(c.LogrusLevel())
	}
	return c.logger
}

func (c *Config) LogrusLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func newLogger(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
