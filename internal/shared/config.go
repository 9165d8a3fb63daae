package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	SiteTZ        *time.Location
	DefaultLocale string

	JWTSecret  string
	SessionTTL time.Duration
	LoginRPS   float64
	LoginBurst int
	TrustProxy bool // honor X-Forwarded-For / X-Real-IP

	StorageDriver     string // rest | s3
	StorageURL        string
	StorageServiceKey string
	StoragePublicURL  string
	StorageBucket     string
	StorageRPS        int
	MaxUploadBytes    int64
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretKey       string
	S3ForcePathStyle  bool

	WhatsAppURL  string
	InstagramURL string
	MapsURL      string

	MigrateWorkers int
}

func Load() Config {
	// .env is optional; real environment wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tourism?parseTime=true&charset=utf8mb4&loc=UTC&clientFoundRows=true"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		DefaultLocale: env("DEFAULT_LOCALE", "tr"),

		JWTSecret:  env("JWT_SECRET", ""),
		SessionTTL: time.Duration(atoi("SESSION_TTL_MINUTES", 720)) * time.Minute,
		LoginRPS:   float64(atoi("LOGIN_RPS", 1)),
		LoginBurst: atoi("LOGIN_BURST", 5),
		TrustProxy: env("TRUST_PROXY_HEADERS", "false") == "true",

		StorageDriver:     env("STORAGE_DRIVER", "rest"),
		StorageURL:        strings.TrimRight(env("STORAGE_URL", ""), "/"),
		StorageServiceKey: env("STORAGE_SERVICE_KEY", ""),
		StoragePublicURL:  strings.TrimRight(env("STORAGE_PUBLIC_URL", ""), "/"),
		StorageBucket:     env("STORAGE_BUCKET", "listings"),
		StorageRPS:        atoi("STORAGE_RPS", 10),
		MaxUploadBytes:    int64(atoi("MAX_UPLOAD_MB", 10)) << 20,
		S3Region:          env("S3_REGION", "eu-central-1"),
		S3Endpoint:        env("S3_ENDPOINT", ""),
		S3AccessKeyID:     env("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:       env("S3_SECRET_ACCESS_KEY", ""),
		S3ForcePathStyle:  env("S3_FORCE_PATH_STYLE", "false") == "true",

		WhatsAppURL:  env("WHATSAPP_URL", ""),
		InstagramURL: env("INSTAGRAM_URL", ""),
		MapsURL:      env("MAPS_URL", ""),

		MigrateWorkers: atoi("MIGRATE_WORKERS", 8),
	}

	tz, err := time.LoadLocation(env("SITE_TIMEZONE", "Europe/Istanbul"))
	if err != nil {
		log.Warn().Err(err).Msg("SITE_TIMEZONE invalid, using UTC")
		tz = time.UTC
	}
	c.SiteTZ = tz

	if c.StoragePublicURL == "" && c.StorageURL != "" {
		c.StoragePublicURL = c.StorageURL + "/storage/v1/object/public"
	}
	if c.JWTSecret == "" {
		if c.Dev() {
			c.JWTSecret = "dev-only-secret"
		}
		log.Warn().Msg("JWT_SECRET is empty")
	}
	if c.StorageDriver == "rest" && c.StorageServiceKey == "" {
		log.Warn().Msg("STORAGE_SERVICE_KEY is empty")
	}
	return c
}

func (c Config) Dev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
