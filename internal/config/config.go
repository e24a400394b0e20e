package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string
	JWTSecret   string

	// Empty disables staff self-registration.
	StaffRegistrationKey string

	GeminiAPIKey     string
	GeminiModel      string
	GeminiEmbedModel string
	GeminiRPM        int

	RedisAddr     string
	EmbedCacheTTL time.Duration

	KafkaBroker     string
	KafkaOrderTopic string

	R2 R2Config

	AppBaseURL  string
	CORSOrigins []string

	AssistantConfigPath string
}

type R2Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Enabled reports whether every R2 setting is present.
func (r R2Config) Enabled() bool {
	return r.Endpoint != "" && r.AccessKey != "" && r.SecretKey != "" &&
		r.Bucket != "" && r.PublicBaseURL != ""
}

var required = []string{
	"DATABASE_URL",
	"GEMINI_API_KEY",
	"JWT_SECRET",
}

// Load reads the process environment. Outside production a local .env file
// is loaded first when present.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err == nil {
			log.Println("[CONFIG] loaded .env")
		}
	}

	var missing []string
	for _, k := range required {
		if os.Getenv(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}

	rpm, err := intEnv("GEMINI_RPM", 60)
	if err != nil {
		return nil, err
	}
	ttl, err := durationEnv("EMBED_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Env:                  stringEnv("APP_ENV", "development"),
		Port:                 stringEnv("PORT", "8000"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		StaffRegistrationKey: os.Getenv("STAFF_REGISTRATION_KEY"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          stringEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEmbedModel:     stringEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		GeminiRPM:            rpm,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		EmbedCacheTTL:        ttl,
		KafkaBroker:          os.Getenv("KAFKA_BROKER"),
		KafkaOrderTopic:      stringEnv("KAFKA_ORDER_TOPIC", "orders.created"),
		R2: R2Config{
			Endpoint:      os.Getenv("R2_ENDPOINT"),
			AccessKey:     os.Getenv("R2_ACCESS_KEY"),
			SecretKey:     os.Getenv("R2_SECRET_KEY"),
			Bucket:        os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		AppBaseURL:          stringEnv("APP_BASE_URL", "http://localhost:8000"),
		CORSOrigins:         listEnv("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AssistantConfigPath: os.Getenv("ASSISTANT_CONFIG"),
	}, nil
}

// --------------------------------------------------
// env helpers
// --------------------------------------------------

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func listEnv(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
