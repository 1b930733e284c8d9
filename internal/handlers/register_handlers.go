package handlers

import (
	"net/http"

	"github.com/SscSPs/club_tab_app/cmd/docs"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// loginRate bounds login attempts per client IP.
const loginRate = "10-M"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginLimit, err := middleware.StrictRateLimit(loginRate)
	if err != nil {
		return err
	}

	public := r.Group("/api/v1")
	registerAuthRoutes(public, services.Auth, loginLimit)

	setupAPIV1Routes(r, cfg, services, apiLimiter)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the authenticated /api/v1 group and splits it by required standing.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) {
	authed := r.Group("/api/v1",
		middleware.RateLimit(apiLimiter),
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.MemberContext(service.Member),
	)
	active := authed.Group("", middleware.RequireActive())
	admin := authed.Group("", middleware.RequireAdmin())

	registerMemberRoutes(authed, active, admin, service.Member)
	registerProductRoutes(active, admin, service.Product)
	registerTransactionRoutes(active, admin, service.Transaction)
	registerFiscalRoutes(active, admin, service.Fiscal, service.Debt)
	registerMessageTemplateRoutes(admin, service.Template)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
