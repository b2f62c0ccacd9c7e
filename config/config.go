package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Storage      StorageConfig
	Database     DatabaseConfig
	SQLite       SQLiteConfig
	Redis        RedisConfig
	Registration RegistrationConfig
	Access       AccessConfig
}

type ServerConfig struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// StorageConfig 選擇票券儲存後端：postgres、sqlite 或 memory
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"postgres"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"checkin.db"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type RegistrationConfig struct {
	// CodeAttempts 大於 1 時才檢查票號是否已被使用
	CodeAttempts int `env:"TICKET_CODE_ATTEMPTS" envDefault:"1"`
	// Lock 啟用 Redis 身分鎖，避免同一人同時報名產生重複票券
	Lock     bool          `env:"REGISTRATION_LOCK" envDefault:"false"`
	LockTTL  time.Duration `env:"REGISTRATION_LOCK_TTL" envDefault:"5s"`
	LockWait time.Duration `env:"REGISTRATION_LOCK_WAIT" envDefault:"2s"`
}

// AccessConfig 志工與管理員畫面的共用密鑰 (bcrypt hash)，空字串代表不檢查
type AccessConfig struct {
	VolunteerKeyHash string `env:"VOLUNTEER_ACCESS_KEY_HASH"`
	AdminKeyHash     string `env:"ADMIN_ACCESS_KEY_HASH"`
}

var AppConfig *Config

// LoadConfig 讀取 .env (若存在) 後從環境變數解析設定
func LoadConfig(envFiles ...string) (*Config, error) {
	// .env 不存在不是錯誤，已設定的環境變數優先
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return AppConfig, nil
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Addr:            ":0",
			GinMode:         "test",
			LogLevel:        "debug",
			ShutdownTimeout: time.Second,
		},
		Storage:  StorageConfig{Driver: "memory"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Registration: RegistrationConfig{
			CodeAttempts: 1,
			LockTTL:      5 * time.Second,
			LockWait:     2 * time.Second,
		},
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Registration.CodeAttempts < 1 {
		return fmt.Errorf("TICKET_CODE_ATTEMPTS must be at least 1, got %d", c.Registration.CodeAttempts)
	}
	return nil
}
