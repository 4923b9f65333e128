package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Strategy names accepted by PROMPT_STRATEGY and IMAGE_STRATEGY.
const (
	PromptStrategyDelegated = "delegated"
	PromptStrategyTemplate  = "template"

	ImageStrategyHosted = "hosted"
	ImageStrategyHorde  = "horde"

	ImageStoreInline = "inline"
	ImageStoreFile   = "file"
	ImageStoreS3     = "s3"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	JWTTTL             time.Duration
	AutoMigrate        bool
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	MaxBodyBytes       int64
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	GenerateTimeout    time.Duration

	PromptStrategy string
	ImageStrategy  string

	OpenAIFlavor     string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIAPIVersion string
	OpenAIChatModel  string
	OpenAIImageModel string

	HordeAPIKey       string
	HordeBaseURL      string
	HordePollInterval time.Duration
	HordeMaxWait      time.Duration
	HordeRPS          float64

	ImageStore      string
	StoragePath     string
	StorageBaseURL  string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	AvatarBaseURL   string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTTTL:             time.Minute * time.Duration(getEnvInt("JWT_TTL_MINUTES", 24*60)),
		AutoMigrate:        getEnvBool("AUTO_MIGRATE", true),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"https://ai-banner-app.vercel.app"}),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 16*1024*1024)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),

		PromptStrategy: strings.ToLower(getEnv("PROMPT_STRATEGY", PromptStrategyDelegated)),
		ImageStrategy:  strings.ToLower(getEnv("IMAGE_STRATEGY", ImageStrategyHosted)),

		OpenAIFlavor:     strings.ToLower(getEnv("OPENAI_FLAVOR", "azure")),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", os.Getenv("AZURE_OPENAI_KEY")),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", os.Getenv("AZURE_OPENAI_ENDPOINT")),
		OpenAIAPIVersion: getEnv("OPENAI_API_VERSION", getEnv("API_VERSION", "2024-04-01-preview")),
		OpenAIChatModel:  getEnv("OPENAI_CHAT_MODEL", getEnv("CHAT_DEPLOYMENT", "gpt-4o-mini")),
		OpenAIImageModel: getEnv("OPENAI_IMAGE_MODEL", getEnv("DALLE_DEPLOYMENT", "dall-e-3")),

		HordeAPIKey:       getEnv("HORDE_API_KEY", "0000000000"),
		HordeBaseURL:      getEnv("HORDE_BASE_URL", "https://stablehorde.net/api/v2"),
		HordePollInterval: time.Second * time.Duration(getEnvInt("HORDE_POLL_INTERVAL_SECONDS", 5)),
		HordeMaxWait:      time.Second * time.Duration(getEnvInt("HORDE_MAX_WAIT_SECONDS", 120)),
		HordeRPS:          getEnvFloat("HORDE_RPS", 2),

		ImageStore:      strings.ToLower(getEnv("IMAGE_STORE", ImageStoreInline)),
		StoragePath:     getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		AvatarBaseURL:   getEnv("AVATAR_BASE_URL", "https://ui-avatars.com/api/"),
	}

	// Generation has to finish inside the write timeout.
	cfg.GenerateTimeout = time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", int((cfg.HTTPWriteTimeout-10*time.Second)/time.Second)))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.GenerateTimeout <= 0 || cfg.GenerateTimeout >= cfg.HTTPWriteTimeout {
		return nil, fmt.Errorf("GENERATE_TIMEOUT_SECONDS must be positive and below HTTP_WRITE_TIMEOUT_SECONDS")
	}

	switch cfg.PromptStrategy {
	case PromptStrategyDelegated, PromptStrategyTemplate:
	default:
		return nil, fmt.Errorf("unsupported PROMPT_STRATEGY %q", cfg.PromptStrategy)
	}

	switch cfg.ImageStrategy {
	case ImageStrategyHosted, ImageStrategyHorde:
	default:
		return nil, fmt.Errorf("unsupported IMAGE_STRATEGY %q", cfg.ImageStrategy)
	}

	switch cfg.ImageStore {
	case ImageStoreInline, ImageStoreFile:
	case ImageStoreS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when IMAGE_STORE=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported IMAGE_STORE %q", cfg.ImageStore)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
