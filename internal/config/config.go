package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8000）
	GoEnv string // dev/prod

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期間

	Database DatabaseConfig
	Gateway  GatewayConfig
	Mail     MailConfig
	Media    MediaConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
}

// DatabaseConfigはDB接続設定
type DatabaseConfig struct {
	Driver string // postgres/mysql
	URL    string // DATABASE_URL（指定時はこちらを優先）

	User     string
	Password string
	Name     string
	Host     string
	Port     int

	MaxOpenConns int
	MaxIdleConns int
}

// DSNはドライバごとの接続文字列
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// GatewayConfigは決済ゲートウェイ（Razorpay）
type GatewayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
	Timeout   time.Duration
}

// MailConfigは請求書メール
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	CC       string
}

// Enabledはメール送信が設定済みか
func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

// MediaConfigはアップロード画像の保存先
type MediaConfig struct {
	Root string // 保存ディレクトリ
	URL  string // 公開URLのprefix
}

// RedisConfigは商品キャッシュ（空なら無効）
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RabbitMQConfigはorder.paidイベント（空なら無効）
type RabbitMQConfig struct {
	URL      string
	Exchange string
	// 接続が切れたときの再接続間隔
	RetryInterval time.Duration
}

// Loadは環境変数
func Load() (Config, error) {
	// .envはあれば読む
	_ = godotenv.Load()

	driver := getEnv("DB_DRIVER", "postgres")
	defaultDBPort := 5432
	if driver == "mysql" {
		defaultDBPort = 3306
	}

	dbPort, err := getEnvInt("DB_PORT", defaultDBPort)
	if err != nil {
		return Config{}, err
	}
	mailPort, err := getEnvInt("EMAIL_PORT", 587)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return Config{}, err
	}
	maxIdle, err := getEnvInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, err
	}
	gatewayTimeout, err := getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := getEnvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getEnvDuration("REDIS_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	rabbitRetry, err := getEnvDuration("RABBITMQ_RETRY_INTERVAL", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getEnv("PORT", "8000"),
		GoEnv: getEnv("GO_ENV", "dev"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    jwtTTL,

		Database: DatabaseConfig{
			Driver:       driver,
			URL:          os.Getenv("DATABASE_URL"),
			User:         firstEnv("DB_USER", "POSTGRES_USER", "MYSQL_USER"),
			Password:     firstEnv("DB_PASSWORD", "POSTGRES_PASSWORD", "MYSQL_PASSWORD"),
			Name:         firstEnv("DB_NAME", "POSTGRES_DB", "MYSQL_DATABASE"),
			Host:         getEnv("DB_HOST", firstEnv("POSTGRES_HOST", "MYSQL_HOST")),
			Port:         dbPort,
			MaxOpenConns: maxOpen,
			MaxIdleConns: maxIdle,
		},
		Gateway: GatewayConfig{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
			BaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			Currency:  getEnv("PAYMENT_CURRENCY", "INR"),
			Timeout:   gatewayTimeout,
		},
		Mail: MailConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     mailPort,
			User:     os.Getenv("EMAIL_HOST_USER"),
			Password: os.Getenv("EMAIL_HOST_PASSWORD"),
			From:     getEnv("DEFAULT_FROM_EMAIL", "noreply@example.com"),
			CC:       getEnv("INVOICE_CC_EMAIL", "info@example.com"),
		},
		Media: MediaConfig{
			Root: getEnv("MEDIA_ROOT", "media"),
			URL:  getEnv("MEDIA_URL", "/media/"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TTL:      cacheTTL,
		},
		RabbitMQ: RabbitMQConfig{
			URL:           os.Getenv("RABBITMQ_URL"),
			Exchange:      getEnv("RABBITMQ_EXCHANGE", "orders"),
			RetryInterval: rabbitRetry,
		},
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Database.URL == "" {
		if cfg.Database.User == "" {
			return Config{}, fmt.Errorf("DB_USER is required")
		}
		if cfg.Database.Name == "" {
			return Config{}, fmt.Errorf("DB_NAME is required")
		}
		if cfg.Database.Host == "" {
			return Config{}, fmt.Errorf("DB_HOST is required")
		}
	}
	if cfg.Gateway.KeyID == "" {
		return Config{}, fmt.Errorf("RAZORPAY_KEY_ID is required")
	}
	if cfg.Gateway.KeySecret == "" {
		return Config{}, fmt.Errorf("RAZORPAY_KEY_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// firstEnvは最初に見つかった値
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
