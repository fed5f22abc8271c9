package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisChannel  string `mapstructure:"REDIS_STATUS_CHANNEL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogFile   string `mapstructure:"LOG_FILE"`

	ConflictRetryAttempts int           `mapstructure:"CONFLICT_RETRY_ATTEMPTS"`
	ConflictRetryInterval time.Duration `mapstructure:"CONFLICT_RETRY_INTERVAL"`

	PageSizeDefault int `mapstructure:"PAGE_SIZE_DEFAULT"`
	PageSizeMax     int `mapstructure:"PAGE_SIZE_MAX"`

	AbandonedOrderTTL   time.Duration `mapstructure:"ABANDONED_ORDER_TTL"`
	AbandonedOrderSweep string        `mapstructure:"ABANDONED_ORDER_SWEEP_SCHEDULE"`
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`
}

var configDefaults = map[string]any{
	"HTTP_PORT":                      "8080",
	"DB_HOST":                        "localhost",
	"DB_PORT":                        "5432",
	"DB_USER":                        "postgres",
	"DB_PASSWORD":                    "",
	"DB_NAME":                        "medmarket",
	"DB_SSLMODE":                     "disable",
	"REDIS_ADDR":                     "",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"REDIS_STATUS_CHANNEL":           "medmarket.status_changed",
	"LOG_LEVEL":                      "info",
	"LOG_FORMAT":                     "json",
	"LOG_FILE":                       "",
	"CONFLICT_RETRY_ATTEMPTS":        3,
	"CONFLICT_RETRY_INTERVAL":        "50ms",
	"PAGE_SIZE_DEFAULT":              20,
	"PAGE_SIZE_MAX":                  100,
	"ABANDONED_ORDER_TTL":            "72h",
	"ABANDONED_ORDER_SWEEP_SCHEDULE": "0 */5 * * * *",
	"SHUTDOWN_GRACE_PERIOD":          "10s",
}

// LoadConfig reads envFile when it exists, then the process environment, which
// wins over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	if c.HTTPPort == "" {
		errList = append(errList, errors.New("HTTP_PORT is required"))
	}
	if c.DBHost == "" || c.DBName == "" {
		errList = append(errList, errors.New("DB_HOST and DB_NAME are required"))
	}
	if c.PageSizeDefault < 1 || c.PageSizeMax < c.PageSizeDefault {
		errList = append(errList, fmt.Errorf("page sizes %d/%d are inconsistent", c.PageSizeDefault, c.PageSizeMax))
	}
	if c.AbandonedOrderTTL <= 0 {
		errList = append(errList, errors.New("ABANDONED_ORDER_TTL must be positive"))
	}
	return errors.Join(errList...)
}

// DSN is the libpq-style connection string understood by the gorm postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
