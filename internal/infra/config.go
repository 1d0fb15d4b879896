package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	PublicBaseURL      string
	GeneratedDir       string
	UploadDir          string
	ImageEditBaseURL   string
	ImageEditModel     string
	ImageEditTimeout   time.Duration
	ImageFetchTimeout  time.Duration
	DefaultPrompt      string
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	ImgBBAPIKey        string
	ImgBBBaseURL       string
	DatabaseURL        string
	EventSink          string
	EventSource        string
	EventType          string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "3000")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		GeneratedDir:       getEnv("GENERATED_DIR", "./generated"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		ImageEditBaseURL:   getEnv("IMAGE_EDIT_BASE_URL", "https://api.openai.com/v1"),
		ImageEditModel:     os.Getenv("IMAGE_EDIT_MODEL"),
		ImageEditTimeout:   time.Second * time.Duration(getEnvInt("IMAGE_EDIT_TIMEOUT_SECONDS", 60)),
		ImageFetchTimeout:  time.Second * time.Duration(getEnvInt("IMAGE_FETCH_TIMEOUT_SECONDS", 15)),
		DefaultPrompt:      os.Getenv("DEFAULT_PROMPT"),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 10<<20)),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		ImgBBAPIKey:        os.Getenv("IMGBB_API_KEY"),
		ImgBBBaseURL:       getEnv("IMGBB_BASE_URL", "https://api.imgbb.com/1"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		EventSink:          os.Getenv("K_SINK"),
		EventSource:        getEnv("EVENT_SOURCE", "artify/transform"),
		EventType:          getEnv("EVENT_TYPE", "image.transform.saved"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	durations := map[string]time.Duration{
		"IMAGE_EDIT_TIMEOUT_SECONDS":  c.ImageEditTimeout,
		"IMAGE_FETCH_TIMEOUT_SECONDS": c.ImageFetchTimeout,
		"HTTP_READ_TIMEOUT_SECONDS":   c.HTTPReadTimeout,
		"HTTP_WRITE_TIMEOUT_SECONDS":  c.HTTPWriteTimeout,
		"HTTP_IDLE_TIMEOUT_SECONDS":   c.HTTPIdleTimeout,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	u, err := url.Parse(c.PublicBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PUBLIC_BASE_URL must be an absolute url, got %q", c.PublicBaseURL)
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
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
