package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Milady     MiladyConfig
	Stripe     StripeConfig
	Email      EmailConfig
	Compliance ComplianceConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки подключения к Redis.
// Сервису достаточно одного узла: Redis держит только кеш статусов
// и счётчики rate-limit, оба переживают потерю без последствий.
type RedisConfig struct {
	// Addr: адрес узла Redis (хост:порт)
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно). По умолчанию 0 (без ретраев).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах). По умолчанию 8ms.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах). По умолчанию 512ms.
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// AuthConfig содержит настройки проверки токенов внешнего auth-провайдера.
// Выпуск сессий - вне ядра; нам нужен только секрет для валидации подписи.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// MiladyConfig содержит настройки интеграции с вендором Milady.
// Отсутствие API-ключей - валидное состояние: API-стратегия просто пропускается.
type MiladyConfig struct {
	APIURL          string `mapstructure:"api_url"`
	APIKey          string `mapstructure:"api_key"`
	APISecret       string `mapstructure:"api_secret"`
	SchoolID        string `mapstructure:"school_id"`
	StripeAccountID string `mapstructure:"stripe_account_id"`
}

// APIConfigured сообщает, доступна ли прямая API-стратегия провижининга
func (m *MiladyConfig) APIConfigured() bool {
	return m.APIKey != "" && m.APISecret != ""
}

// StripeConfig содержит настройки Stripe
type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// EmailConfig содержит настройки отправки писем через Resend
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// ComplianceConfig содержит настройки Compliance Gate
type ComplianceConfig struct {
	// StatusCacheTTLSec: сколько секунд кешировать результат проверки доступа. 0 - не кешировать.
	StatusCacheTTLSec int `mapstructure:"status_cache_ttl_sec"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	// Привязка для секции Auth
	vip.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")

	// Привязка для секции Milady
	vip.BindEnv("milady.api_url", "MILADY_API_URL")
	vip.BindEnv("milady.api_key", "MILADY_API_KEY")
	vip.BindEnv("milady.api_secret", "MILADY_API_SECRET")
	vip.BindEnv("milady.school_id", "MILADY_SCHOOL_ID")
	vip.BindEnv("milady.stripe_account_id", "MILADY_STRIPE_ACCOUNT_ID")

	// Привязка для секции Stripe
	vip.BindEnv("stripe.secret_key", "STRIPE_SECRET_KEY")

	// Привязка для секции Email
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	// Привязка для секции Compliance
	vip.BindEnv("compliance.status_cache_ttl_sec", "COMPLIANCE_STATUS_CACHE_TTL_SEC")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// 2. Устанавливаем путь к файлу конфигурации
	if configPath != "" {
		vip.SetConfigFile(configPath)
		// 3. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 4. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database User: %s", cfg.Database.User)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Database SSLMode: %s", cfg.Database.SSLMode)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Milady API Configured: %t", cfg.Milady.APIConfigured())
		log.Printf("Milady Stripe Account Set: %t", cfg.Milady.StripeAccountID != "")
		log.Printf("Resend API Key Set: %t", cfg.Email.ResendAPIKey != "")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// 6. Проверка обязательных параметров
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth JWT secret is required in config (check AUTH_JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	ginMode := vip.GetString("GIN_MODE")
	if ginMode != "debug" {
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
		}
		if cfg.Redis.Addr != "" && cfg.Redis.Password == "" {
			log.Println("Warning: Redis is configured but REDIS_PASSWORD is not set in a non-debug environment.")
		}
	}

	return &cfg, nil
}
