package app

import (
	"database/sql"
	"fmt"

	"go-garage/internal/config"
	"go-garage/internal/employee"
	"go-garage/internal/garageauth"
	"go-garage/internal/messaging/kafka"
	"go-garage/internal/middleware"
	"go-garage/internal/rbac"
	"go-garage/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	garageAuthRepo := garageauth.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Provisioning collaborators ---
	guard, err := employee.NewLoginIDGuard(cfg.LoginIDStrategy, userRepo)
	if err != nil {
		return err
	}

	policy, err := buildProvisionPolicy(cfg, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(
		userRepo,
		garageAuthRepo,
		guard,
		policy,
		employee.NewOutboxEventPublisher(outboxRepo),
		rdb,
		employee.Options{
			SanitizeNames: cfg.SanitizeNames,
			CacheTTL:      cfg.EmployeeCacheTTL,
		},
		logger,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger).
		WithErrorDetails(cfg.ExposeErrorDetails)

	// --- Routes Registration ---
	routeOpts := employee.RouteOptions{JWTSecret: cfg.JWTSecret}
	if cfg.RateLimitEnabled {
		routeOpts.CreateRateLimitRPS = cfg.RateLimitRPS
		routeOpts.CreateRateLimitBurst = cfg.RateLimitBurst
	}

	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, routeOpts, logger)
	}

	return nil
}

// corsMiddleware allows every origin unless origins is set.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowOrigins = origins
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	cc.ExposeHeaders = []string{middleware.HeaderRequestID}
	return cors.New(cc)
}

func buildProvisionPolicy(cfg *config.Config, logger *zap.Logger) (employee.ProvisionPolicy, error) {
	switch cfg.ProvisionPolicy {
	case config.ProvisionPolicyAllowAll:
		logger.Warn("provision policy allows anonymous callers", zap.String("policy", cfg.ProvisionPolicy))
		return employee.AllowAll{}, nil
	case config.ProvisionPolicyCasbin:
		return rbac.NewCasbinPolicy(cfg.ProvisionerRoles, logger)
	default:
		return nil, fmt.Errorf("unknown provision policy %q", cfg.ProvisionPolicy)
	}
}
