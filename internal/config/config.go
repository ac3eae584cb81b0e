package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
// Stripe/SMTP などは起動時にはチェックせず、使う時点でエラーにする。
type Config struct {
	Port   string // サーバーポート（8080）
	AppEnv string // development/production

	DatabaseDriver string // postgres/mysql/sqlite
	DatabaseURL    string // DSN

	SupabaseJWTSecret string // セッション(JWT)の署名シークレット

	StripeSecretKey     string
	StripeWebhookSecret string

	SMTP SMTPConfig

	OperatorEmail string // 新規注文の通知先

	// 管理者テーブルを見ずに通すメールアドレス（初期構築用）
	AdminBypassEmails []string
	LoginURL          string

	RedisURL string // 空ならイベント重複チェックはDBの一意制約だけ

	StoreName string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Loadは .env（あれば）と環境変数から読む
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:   getenv("PORT", "8080"),
		AppEnv: getenv("APP_ENV", "development"),

		DatabaseDriver: getenv("DB_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			FromName: getenv("SMTP_FROM_NAME", "Orders"),
		},

		OperatorEmail: os.Getenv("OPERATOR_EMAIL"),

		AdminBypassEmails: splitList(os.Getenv("ADMIN_BYPASS_EMAILS")),
		LoginURL:          getenv("LOGIN_URL", "/login"),

		RedisURL: os.Getenv("REDIS_URL"),

		StoreName: getenv("STORE_NAME", "Our Store"),
	}

	if cfg.DatabaseURL == "" && cfg.DatabaseDriver == "postgres" {
		cfg.DatabaseURL = postgresDSNFromParts()
	}

	//必須チェック（DBだけ）
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	switch cfg.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres, mysql or sqlite: %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// POSTGRES_* から組み立てる（ローカル用）
func postgresDSNFromParts() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getenv("POSTGRES_PORT", "5432"),
		getenv("POSTGRES_USER", "postgres"),
		getenv("POSTGRES_PASSWORD", "postgres"),
		getenv("POSTGRES_DB", "app"),
		getenv("POSTGRES_SSLMODE", "disable"),
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
