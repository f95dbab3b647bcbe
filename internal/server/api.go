package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiProjects handles GET /api/projects
func (h *handler) apiProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": h.Content.Projects})
}

// apiProject handles GET /api/projects/:slug
func (h *handler) apiProject(c *gin.Context) {
	p, err := h.Content.Project(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
