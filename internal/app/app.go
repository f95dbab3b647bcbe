// Package app assembles the site from configuration and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/fluxfolio/internal/analytics"
	"github.com/Zachkp/fluxfolio/internal/assistant"
	"github.com/Zachkp/fluxfolio/internal/config"
	"github.com/Zachkp/fluxfolio/internal/contact"
	"github.com/Zachkp/fluxfolio/internal/notify"
	"github.com/Zachkp/fluxfolio/internal/server"
	"github.com/Zachkp/fluxfolio/internal/site"
	"github.com/Zachkp/fluxfolio/internal/store"
)

const (
	shutdownTimeout = 10 * time.Second
	// Simulated latency of the inquiry document when no database is set.
	appendDelay = 500 * time.Millisecond
)

// App is a fully wired site.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Content   *site.Content
	Store     *store.Store
	Tracker   *analytics.Tracker
	Assistant *assistant.Assistant
	Contact   *contact.Service
	Engine    *gin.Engine
}

// New wires every component described by cfg. Store, Tracker and Assistant
// stay nil when their configuration is absent.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	default:
		return nil, fmt.Errorf("unknown GIN_MODE %q", cfg.GinMode)
	}

	a := &App{Config: cfg, Logger: logger}

	content := site.Default()
	if cfg.ContentFile != "" {
		var err error
		if content, err = site.Load(cfg.ContentFile); err != nil {
			return nil, err
		}
	}
	a.Content = content

	if cfg.StorageEnabled() {
		db, err := store.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.Store = store.New(db)
		logger.Info("database initialized", zap.String("path", cfg.DatabasePath))
		if cfg.UsesDefaultAdminUsername() {
			logger.Warn("using default admin username, set ADMIN_USERNAME")
		}
		if cfg.UsesDefaultAdminPassword() {
			logger.Warn("using default admin password, set ADMIN_PASSWORD")
		}
	}

	hasher := analytics.NewHasher(cfg.Privacy.HashSalt)
	if a.Store != nil {
		a.Tracker = analytics.NewTracker(a.Store.Visitors, hasher, logger.Named("analytics"), analytics.Options{
			Retention:       cfg.Privacy.VisitorRetention,
			CleanupInterval: cfg.Privacy.CleanupInterval,
		})
	}

	var drafter contact.Drafter
	if cfg.AssistantEnabled() {
		gen, err := assistant.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Assistant = assistant.New(gen, cfg.Gemini.Timeout, logger.Named("assistant"))
		drafter = a.Assistant
	} else {
		logger.Warn("GEMINI_API_KEY not set, contact form runs without the AI assistant")
	}

	var mailer notify.Mailer = notify.NewLogMailer(logger.Named("mail"))
	if cfg.SMTPEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass)
	}

	var appender notify.Appender = notify.NewLogAppender(logger.Named("docs"), appendDelay)
	if a.Store != nil {
		appender = a.Store.Inquiries
	}

	svc, err := contact.NewService(contact.Options{
		Flow:       cfg.EffectiveFlow(),
		Assistant:  drafter,
		Mailer:     mailer,
		Appender:   appender,
		OwnerEmail: cfg.Contact.OwnerEmail,
		Logger:     logger.Named("contact"),
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Contact = svc

	sessions, err := server.NewSessionManager(cfg.Admin.SessionSecret, cfg.Admin.SessionTTL, nil)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Engine, err = server.New(server.Deps{
		Content:  content,
		Contact:  svc,
		Store:    a.Store,
		Tracker:  a.Tracker,
		Hasher:   hasher,
		Sessions: sessions,
		Admin:    server.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password},
		Logger:   logger.Named("http"),

		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the database, if any.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Run listens on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server and the visitor tracker on ln, then shuts both
// down gracefully once ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.Tracker != nil {
		g.Go(func() error {
			return a.Tracker.Run(gctx)
		})
	}
	g.Go(func() error {
		a.Logger.Info("server starting",
			zap.String("addr", ln.Addr().String()),
			zap.String("contact_flow", a.Contact.Flow()),
			zap.Bool("admin", a.Store != nil))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
