package server

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "taskbot/internal/models"
)

func (s *Server) getUsers(c *gin.Context) {
    users, err := s.db.AllUsers(c.Request.Context())
    if err != nil {
        s.fail(c, "fetch users", err)
        return
    }
    if users == nil { users = []models.User{} }
    c.JSON(http.StatusOK, models.UsersResponse{Users: users})
}

func (s *Server) postUser(c *gin.Context) {
    var req models.User
    if err := c.ShouldBindJSON(&req); err != nil {
        badRequest(c, "invalid payload: "+err.Error())
        return
    }
    if req.Username == "" {
        badRequest(c, "username must not be empty")
        return
    }
    user, err := s.db.UpsertUser(c.Request.Context(), req.Username, req.FullName, req.Groups)
    if err != nil {
        s.fail(c, "upsert user", err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (s *Server) deleteUser(c *gin.Context) {
    username := c.Param("username")
    if err := s.db.DeleteUser(c.Request.Context(), username); err != nil {
        s.fail(c, "delete user", err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"success": true})
}
