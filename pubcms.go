// Package pubcms is a headless content management system built with Go,
// Echo and SQLite. Administrators manage posts, projects, media and site
// settings through an authenticated JSON API; front ends read published
// content through public endpoints, an RSS feed and a sitemap.
package pubcms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eringen/pubcms/content"
	"github.com/eringen/pubcms/session"
)

// App is the central pubcms application. It wires together the store,
// session backend, reconciler, cache, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Sessions session.Store
	Content  *content.Reconciler
	Cache    *PublicCache

	customRoutes []func(*App)
	redis        *redis.Client
	ownsStore    bool
	ready        bool
}

// New creates a new pubcms App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, picks the session backend and registers middleware
// and routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pubcms: SessionSecret is required")
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("pubcms: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	if a.Sessions == nil {
		a.redis = a.Config.redisClient()
		a.Sessions = session.NewStoreWithFallback(ctx, a.redis, a.Config.SessionTTL)
	}

	if err := os.MkdirAll(a.Config.UploadDir, 0o755); err != nil {
		return fmt.Errorf("pubcms: create upload dir: %w", err)
	}

	a.Content = content.NewReconciler(a.Store)
	a.Cache = NewPublicCache(a.Store, a.Config.PublicCacheTTL)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start initializes the app and serves until SIGINT or SIGTERM, then shuts
// the server down gracefully.
func (a *App) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Init(ctx); err != nil {
		return err
	}

	a.Echo.Server.ReadTimeout = 15 * time.Second
	a.Echo.Server.WriteTimeout = 30 * time.Second
	a.Echo.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		a.Echo.Logger.Infof("listening on %s", a.Config.Addr)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("pubcms: shutdown: %w", err)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/health", a.handleHealth)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.Static("/uploads", a.Config.UploadDir)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", a.handleLogin)
	auth.POST("/logout", a.handleLogout)
	auth.GET("/me", a.handleMe, a.requireAuth)

	posts := api.Group("/posts", a.requireAuth)
	posts.GET("", a.handleListPosts)
	posts.POST("", a.handleCreatePost)
	posts.GET("/:id", a.handleGetPost)
	posts.PUT("/:id", a.handleUpdatePost)
	posts.DELETE("/:id", a.handleDeletePost)
	posts.GET("/:id/preview", a.handlePreviewPost)

	projects := api.Group("/projects", a.requireAuth)
	projects.GET("", a.handleListProjects)
	projects.POST("", a.handleCreateProject)
	projects.GET("/:id", a.handleGetProject)
	projects.PUT("/:id", a.handleUpdateProject)
	projects.DELETE("/:id", a.handleDeleteProject)

	media := api.Group("/media", a.requireAuth)
	media.GET("", a.handleListMedia)
	media.POST("", a.handleUploadMedia)
	media.GET("/:id", a.handleGetMedia)
	media.DELETE("/:id", a.handleDeleteMedia)

	api.GET("/settings", a.handleGetSettings, a.requireAuth)
	api.PUT("/settings", a.handleUpdateSettings, a.requireAuth, requireAdmin)
	api.GET("/stats", a.handleStats, a.requireAuth)

	public := api.Group("/public")
	public.GET("/posts", a.handlePublicPosts)
	public.GET("/posts/:slug", a.handlePublicPost)
	public.GET("/projects", a.handlePublicProjects)
	public.GET("/projects/:slug", a.handlePublicProject)
	public.GET("/tags", a.handlePublicTags)
	public.GET("/settings", a.handlePublicSettings)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.Store != nil && a.ownsStore {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("pubcms: required environment variable %s is not set", key)
	}
	return v
}
