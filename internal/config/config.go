package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	LogLevel            string
	AutoMigrate         bool // create/alter tables at startup

	CacheBackend    string // "redis" or "memcached"
	MemcachedHost   string
	ListingCacheTTL time.Duration

	OverpassURL    string
	NearbyCacheTTL time.Duration
	NearbyTimeout  time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	RabbitMQURL        string // empty disables event publishing
	NotificationsQueue string
	SendinblueAPIKey   string // SENDINBLUE_API_KEY for notification emails (Brevo)
	MailFrom           string

	SearchRateLimit int // requests per minute per IP on public search routes
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CACHE_BACKEND", "redis")
	v.SetDefault("MEMCACHED_HOST", "localhost:11211")
	v.SetDefault("LISTING_CACHE_TTL", "2m")
	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("NEARBY_CACHE_TTL", "30m")
	v.SetDefault("NEARBY_TIMEOUT", "8s")
	v.SetDefault("NOTIFICATIONS_QUEUE", "listing_notifications")
	v.SetDefault("MAIL_FROM", "noreply@homescout.app")
	v.SetDefault("SEARCH_RATE_LIMIT", 120)
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := v.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = v.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = v.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("CACHE_BACKEND")))
	if backend != "memcached" {
		backend = "redis"
	}
	limit := v.GetInt("SEARCH_RATE_LIMIT")
	if limit <= 0 {
		limit = 120
	}

	return &Config{
		Env:                 env,
		Port:                v.GetString("PORT"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            v.GetString("REDIS_URL"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(v.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		AutoMigrate:         v.GetBool("AUTO_MIGRATE"),
		CacheBackend:        backend,
		MemcachedHost:       v.GetString("MEMCACHED_HOST"),
		ListingCacheTTL:     duration(v, "LISTING_CACHE_TTL", 2*time.Minute),
		OverpassURL:         v.GetString("OVERPASS_URL"),
		NearbyCacheTTL:      duration(v, "NEARBY_CACHE_TTL", 30*time.Minute),
		NearbyTimeout:       duration(v, "NEARBY_TIMEOUT", 8*time.Second),
		CloudinaryCloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		NotificationsQueue:  v.GetString("NOTIFICATIONS_QUEUE"),
		SendinblueAPIKey:    v.GetString("SENDINBLUE_API_KEY"),
		MailFrom:            v.GetString("MAIL_FROM"),
		SearchRateLimit:     limit,
	}
}

// duration falls back to def when the value is missing or unparseable.
func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	d := v.GetDuration(key)
	if d <= 0 {
		return def
	}
	return d
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
