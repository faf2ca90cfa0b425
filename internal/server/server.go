package server

import (
    "errors"
    "log/slog"
    "net/http"
    "time"

    "github.com/gin-contrib/cors"
    "github.com/gin-gonic/gin"

    "taskbot/internal/storage/sqlite"
)

const (
    readHeaderTimeout = 5 * time.Second
    readTimeout       = 30 * time.Second
    writeTimeout      = 60 * time.Second
)

// Server exposes the task repositories over JSON/HTTP. It holds no state
// beyond the database handle; every request maps to one repository call.
type Server struct {
    db     *sqlite.DB
    logger *slog.Logger
}

func New(db *sqlite.DB, logger *slog.Logger) *Server {
    if logger == nil {
        logger = slog.Default()
    }
    return &Server{db: db, logger: logger}
}

func (s *Server) Engine() *gin.Engine {
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(cors.New(cors.Config{
        AllowOrigins:     []string{"*"},
        AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
        AllowHeaders:     []string{"Authorization", "Content-Type"},
        AllowCredentials: true,
    }))

    r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

    api := r.Group("/api")
    {
        api.GET("/tasks", s.getTasks)
        api.POST("/tasks", s.postTasks)
        api.PUT("/tasks/:id", s.putTask)
        api.DELETE("/tasks/:id", s.deleteTask)

        api.GET("/users", s.getUsers)
        api.POST("/users", s.postUser)
        api.DELETE("/users/:username", s.deleteUser)

        api.GET("/groups", s.getGroups)
        api.POST("/groups", s.postGroup)

        api.GET("/config", s.getConfig)
        api.POST("/config", s.postConfig)

        api.GET("/stats", s.getStats)
    }
    return r
}

func (s *Server) Run(addr string) error {
    s.logger.Info("starting api server", "addr", addr)
    srv := &http.Server{
        Addr:              addr,
        Handler:           s.Engine(),
        ReadHeaderTimeout: readHeaderTimeout,
        ReadTimeout:       readTimeout,
        WriteTimeout:      writeTimeout,
    }
    return srv.ListenAndServe()
}

// fail maps storage errors to responses: ErrNotFound becomes a 404 with the
// error text, anything else is logged and surfaces as an opaque 500.
func (s *Server) fail(c *gin.Context, op string, err error) {
    if errors.Is(err, sqlite.ErrNotFound) {
        c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
        return
    }
    s.logger.Error(op, "err", err)
    c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}

func badRequest(c *gin.Context, detail string) {
    c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}
