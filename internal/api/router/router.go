package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/config"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/api/handler"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/api/middleware"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/redis"
)

const jsonBodyLimit = 1 << 20 // JSON routes; uploads get the configured cap

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, sess *session.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth (no session required)
		auth := v1.Group("/auth")
		auth.Use(middleware.BodyLimit(jsonBodyLimit))
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.GET("/state", h.Auth.State)
		}

		// reads work from persisted state even after the token lapses, so
		// the grid and history routes stay outside the session gate
		grid := v1.Group("/grid")
		{
			grid.GET("", h.Grid.Grid)
			grid.GET("/overview", h.Grid.Overview)
		}

		history := v1.Group("/history")
		{
			history.GET("", h.History.List)
			history.DELETE("", h.History.Clear)
			history.DELETE("/:id", h.History.Delete)
		}

		export := v1.Group("/export")
		{
			export.GET("/xlsx", h.Export.ExportXLSX)
			export.GET("/ics", h.Export.ExportICS)
		}

		// routes that talk to the solver server need a live token
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(sess))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			sync := authorized.Group("/sync")
			{
				sync.POST("/upload/master", middleware.BodyLimit(cfg.Server.MaxUploadSize), h.Sync.UploadMaster)
				sync.POST("/upload/assignment", middleware.BodyLimit(cfg.Server.MaxUploadSize), h.Sync.UploadAssignment)
				sync.POST("/generate", middleware.BodyLimit(jsonBodyLimit), h.Sync.Generate)
				sync.GET("/status", h.Sync.Status)
				sync.POST("/dismiss-warning", h.Sync.DismissWarning)
				sync.POST("/dismiss-error", h.Sync.DismissError)
				sync.GET("/versions", h.Sync.Versions)
			}

			authorized.POST("/history/:id/restore", h.History.Restore)

			versions := authorized.Group("/versions")
			{
				versions.GET("", h.History.RemoteVersions)
				versions.DELETE("/:id", h.History.DeleteRemoteVersion)
			}
		}
	}

	return r
}
