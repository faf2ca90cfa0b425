package server

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "taskbot/internal/models"
)

func (s *Server) getGroups(c *gin.Context) {
    groups, err := s.db.AllGroups(c.Request.Context())
    if err != nil {
        s.fail(c, "fetch groups", err)
        return
    }
    if groups == nil { groups = []models.Group{} }
    c.JSON(http.StatusOK, models.GroupsResponse{Groups: groups})
}

func (s *Server) postGroup(c *gin.Context) {
    var req models.Group
    if err := c.ShouldBindJSON(&req); err != nil {
        badRequest(c, "invalid payload: "+err.Error())
        return
    }
    if req.ID == "" {
        badRequest(c, "id must not be empty")
        return
    }
    group, err := s.db.UpsertGroup(c.Request.Context(), req.ID, req.Name)
    if err != nil {
        s.fail(c, "upsert group", err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"success": true, "group": group})
}
