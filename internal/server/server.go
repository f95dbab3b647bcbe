// Package server wires the gin engine: pages, the contact wizard, the JSON
// API and the admin dashboard.
package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/fluxfolio/internal/analytics"
	"github.com/Zachkp/fluxfolio/internal/contact"
	"github.com/Zachkp/fluxfolio/internal/site"
	"github.com/Zachkp/fluxfolio/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are the collaborators the handlers use. Store and Tracker may be
// nil, which disables the admin dashboard and visitor tracking.
type Deps struct {
	Content  *site.Content
	Contact  *contact.Service
	Store    *store.Store
	Tracker  *analytics.Tracker
	Hasher   *analytics.Hasher
	Sessions *SessionManager
	Admin    Credentials
	Logger   *zap.Logger
	Now      func() time.Time

	// TrustedProxies may set the client IP through forwarding headers.
	TrustedProxies []string
}

// Credentials are the admin login.
type Credentials struct {
	Username string
	Password string
}

type handler struct {
	Deps
}

// New builds the router.
func New(d Deps) (*gin.Engine, error) {
	if d.Content == nil || d.Contact == nil || d.Hasher == nil {
		return nil, errors.New("server: content, contact service and hasher are required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	h := &handler{Deps: d}

	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.Use(recovery(d.Logger))
	r.Use(requestLogger(d.Logger))
	if d.Tracker != nil {
		r.Use(d.Tracker.Middleware())
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/", h.index)
	r.GET("/projects/:slug", h.projectDialog)
	r.GET("/privacy", h.privacy)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/contact/form", h.contactForm)
	r.POST("/contact/describe", h.contactDescribe)
	r.POST("/contact", h.contactSubmit)

	api := r.Group("/api")
	api.POST("/contact", h.apiContact)
	api.GET("/projects", h.apiProjects)
	api.GET("/projects/:slug", h.apiProject)

	if d.Store != nil && d.Sessions != nil {
		h.setupAdminRoutes(r)
	}

	r.NoRoute(h.notFound)
	return r, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
