package employee

import (
	"go-garage/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouteOptions struct {
	JWTSecret string
	// CreateRateLimit is applied to POST only. Zero RPS disables it.
	CreateRateLimitRPS   float64
	CreateRateLimitBurst int
}

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	opts RouteOptions,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.OptionalAuth(opts.JWTSecret))
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("", handler.List)
		employees.GET("/:userUid", handler.GetByUID)

		create := []gin.HandlerFunc{handler.Create}
		if opts.CreateRateLimitRPS > 0 && opts.CreateRateLimitBurst > 0 {
			create = append([]gin.HandlerFunc{
				middleware.RateLimitByCaller(rate.Limit(opts.CreateRateLimitRPS), opts.CreateRateLimitBurst),
			}, create...)
		}
		employees.POST("", create...)
	}
}
