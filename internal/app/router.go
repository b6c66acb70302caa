package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"library-backend/internal/analytics"
	"library-backend/internal/catalog"
	"library-backend/internal/circulation"
	"library-backend/internal/docs"
	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/config"
	"library-backend/internal/platform/logging"
	"library-backend/internal/platform/session"
	"library-backend/internal/reservations"
)

// NewRouter builds the gin engine with every route under /api.
func NewRouter(cfg *config.Config, logger *zap.Logger, repos Repositories, issuer *session.Issuer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logging.RequestID(), logging.Access(logger), logging.Recovery(logger))
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == config.ModeDev && len(cfg.Server.AllowOrigins) > 0 {
		// CORS is only needed while the frontend runs on its own dev server.
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", session.HeaderRole, logging.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Location", logging.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// health
	r.GET("/healthz", healthz(repos.Ping))

	docs.SwaggerInfo.Version = cfg.Version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	// /api
	api := r.Group("/api", session.Attach(issuer))
	staff := api.Group("/staff")

	session.RegisterRoutes(api, issuer)
	catalog.RegisterRoutes(api, catalog.NewService(repos.Catalog))
	reservations.RegisterRoutes(api, staff, reservations.NewService(repos.Reservations, logger.Named("reservations")))
	circulation.RegisterRoutes(api, staff, circulation.NewService(repos.Circulation))
	analytics.RegisterRoutes(api, analytics.NewService(repos.Analytics))

	r.NoRoute(func(c *gin.Context) {
		apierr.Respond(c, apierr.ErrNotFound("route not found"))
	})
	return r
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				_ = c.Error(err)
				c.String(http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		c.String(http.StatusOK, "ok")
	}
}
