package pubcms

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/eringen/pubcms/session"
)

// SiteConfig holds all configuration for a pubcms instance.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio CMS")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and default settings

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/cms.db")
	UploadDir    string // Directory served under /uploads (default "public/uploads")

	SessionSecret string        // Required: cookie signing secret
	CookieSecure  bool          // Set true for HTTPS
	SessionTTL    time.Duration // Login lifetime (default 7 days)

	RedisAddr     string // Optional: enables the Redis session store
	RedisPassword string
	RedisDB       int

	CORSOrigins    []string      // Allowed front-end origins (default any)
	PublicCacheTTL time.Duration // Feed and sitemap cache TTL (default 5min)
	LogLevel       string        // debug, info, warn or error (default info)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio CMS"
	}
	if c.Description == "" {
		c.Description = "A modern headless CMS"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/cms.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = "public/uploads"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = session.DefaultTTL
	}
	if c.PublicCacheTTL == 0 {
		c.PublicCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// defaultSettings is written the first time settings are read.
func (c SiteConfig) defaultSettings() Settings {
	return Settings{
		SiteName:        c.Name,
		SiteDescription: c.Description,
		SiteURL:         c.URL,
	}
}

// redisClient returns a client for RedisAddr, or nil when Redis is not configured.
func (c SiteConfig) redisClient() *redis.Client {
	if c.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
}

// LoadConfig reads a .env file if present and builds a SiteConfig from the
// environment. Defaults are applied by New.
func LoadConfig() SiteConfig {
	if err := godotenv.Load(); err == nil {
		log.Println("pubcms: loaded .env")
	}
	return SiteConfig{
		Name:           EnvOr("SITE_NAME", ""),
		URL:            EnvOr("SITE_URL", ""),
		Description:    EnvOr("SITE_DESCRIPTION", ""),
		Addr:           EnvOr("ADDR", ""),
		DatabasePath:   EnvOr("DATABASE_PATH", ""),
		UploadDir:      EnvOr("UPLOAD_DIR", ""),
		SessionSecret:  EnvOr("SESSION_SECRET", ""),
		CookieSecure:   envBool("COOKIE_SECURE", false),
		SessionTTL:     envDuration("SESSION_TTL", 0),
		RedisAddr:      EnvOr("REDIS_ADDR", ""),
		RedisPassword:  EnvOr("REDIS_PASSWORD", ""),
		RedisDB:        envInt("REDIS_DB", 0),
		CORSOrigins:    FilterEmpty(strings.Split(EnvOr("CORS_ORIGINS", ""), ",")),
		PublicCacheTTL: envDuration("PUBLIC_CACHE_TTL", 0),
		LogLevel:       EnvOr("LOG_LEVEL", ""),
	}
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(EnvOr(key, strconv.FormatBool(fallback)))
	if err != nil {
		log.Printf("pubcms: invalid %s, using %v", key, fallback)
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(EnvOr(key, strconv.Itoa(fallback)))
	if err != nil {
		log.Printf("pubcms: invalid %s, using %d", key, fallback)
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := EnvOr(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("pubcms: invalid %s, using %s", key, fallback)
		return fallback
	}
	return d
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStore uses an already opened Store instead of opening DatabasePath.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithSessionStore replaces the session backend chosen from the config.
func WithSessionStore(s session.Store) Option {
	return func(a *App) {
		a.Sessions = s
	}
}
