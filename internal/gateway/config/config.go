// Package config reads process configuration once at startup. Everything a
// handler needs is injected from here; no package reads the environment at
// request time.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	Gemini  GeminiConfig
	Search  SearchConfig
	Auth    AuthConfig
	Reports ReportStoreConfig

	WebhookSecret string
	SealingKey    string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SearchConfig struct {
	Endpoint string
	APIKey   string
}

type AuthConfig struct {
	UserinfoURL string
	// DevToken maps to a fixed local user when set; only honored in the
	// local environment.
	DevToken string
}

type ReportStoreConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:        *port,
		Env:         env,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Gemini: GeminiConfig{
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.0-flash"),
		},
		Search: SearchConfig{
			Endpoint: strings.TrimSpace(os.Getenv("SEARCH_API_ENDPOINT")),
			APIKey:   strings.TrimSpace(os.Getenv("SEARCH_API_KEY")),
		},
		Auth: AuthConfig{
			UserinfoURL: strings.TrimSpace(os.Getenv("AUTH_USERINFO_URL")),
			DevToken:    strings.TrimSpace(os.Getenv("AUTH_DEV_TOKEN")),
		},
		Reports:       loadReportStoreConfig(env),
		WebhookSecret: strings.TrimSpace(os.Getenv("BILLING_WEBHOOK_SECRET")),
		SealingKey:    strings.TrimSpace(os.Getenv("CREDENTIAL_SEALING_KEY")),
	}, nil
}

func (c ReportStoreConfig) CanUseS3() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

func loadReportStoreConfig(env string) ReportStoreConfig {
	endpoint := resolveReportEndpoint(env)
	return ReportStoreConfig{
		Enabled:   strings.EqualFold(strings.TrimSpace(env), "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_BUCKET")), "aivis-reports"),
		UseSSL:    resolveReportUseSSL(env),
	}
}

func resolveReportEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("REPORT_S3_ENDPOINT"))
}

func resolveReportUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("REPORT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
