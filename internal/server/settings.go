package server

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "taskbot/internal/models"
)

func (s *Server) getConfig(c *gin.Context) {
    settings, err := s.db.Settings(c.Request.Context())
    if err != nil {
        s.fail(c, "fetch config", err)
        return
    }
    c.JSON(http.StatusOK, settings)
}

// postConfig replaces the whole settings document; each change is persisted
// immediately, there is no versioning.
func (s *Server) postConfig(c *gin.Context) {
    var req models.Settings
    if err := c.ShouldBindJSON(&req); err != nil {
        badRequest(c, "invalid payload: "+err.Error())
        return
    }
    if err := s.db.SaveSettings(c.Request.Context(), req); err != nil {
        s.fail(c, "save config", err)
        return
    }
    c.JSON(http.StatusOK, req)
}

func (s *Server) getStats(c *gin.Context) {
    stats, err := s.db.Stats(c.Request.Context())
    if err != nil {
        s.fail(c, "collect stats", err)
        return
    }
    c.JSON(http.StatusOK, stats)
}
