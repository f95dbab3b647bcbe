package server

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// adminAuth redirects to the login page unless the session cookie verifies.
func (h *handler) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err == nil {
			if _, err = h.Sessions.Verify(token); err == nil {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
	}
}

func (h *handler) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login", gin.H{"Title": "Admin Login"})
	})
	r.POST("/admin/login", h.adminLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(sessionCookie, "", -1, "/admin", "", false, true)
		h.Logger.Info("admin logout", zap.String("client", h.clientKey(c)))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(h.adminAuth())
	admin.GET("/dashboard", h.adminDashboard)
	admin.GET("/api/stats", h.adminStatsJSON)
	admin.GET("/inquiries", h.adminInquiries)
	admin.GET("/export/stats", h.adminExport)
}

func (h *handler) adminLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.Admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.Admin.Password)) == 1
	if !userOK || !passOK {
		h.Logger.Warn("failed admin login attempt", zap.String("client", h.clientKey(c)))
		c.HTML(http.StatusUnauthorized, "admin-login", gin.H{"Title": "Admin Login", "Error": "Invalid credentials"})
		return
	}

	token, err := h.Sessions.Issue(username)
	if err != nil {
		h.Logger.Error("issue admin session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Title": "Something went wrong"})
		return
	}
	c.SetCookie(sessionCookie, token, int(h.Sessions.TTL().Seconds()), "/admin", "", c.Request.TLS != nil, true)
	h.Logger.Info("admin login successful", zap.String("client", h.clientKey(c)))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (h *handler) adminDashboard(c *gin.Context) {
	stats, err := h.Store.Dashboard(c.Request.Context(), h.Now())
	if err != nil {
		h.Logger.Error("error loading admin stats", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Title": "Failed to load statistics"})
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard", gin.H{"Title": "Dashboard", "Stats": stats})
}

func (h *handler) adminStatsJSON(c *gin.Context) {
	stats, err := h.Store.Dashboard(c.Request.Context(), h.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handler) adminInquiries(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 100
	}
	inquiries, err := h.Store.Inquiries.List(c.Request.Context(), limit)
	if err != nil {
		h.Logger.Error("error loading inquiries", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Title": "Failed to load inquiries"})
		return
	}
	c.HTML(http.StatusOK, "admin-inquiries", gin.H{"Title": "Inquiries", "Inquiries": inquiries})
}

func (h *handler) adminExport(c *gin.Context) {
	stats, err := h.Store.Dashboard(c.Request.Context(), h.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	h.Logger.Info("admin stats exported", zap.String("client", h.clientKey(c)))
	c.JSON(http.StatusOK, stats)
}
