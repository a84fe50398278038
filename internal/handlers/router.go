package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SAP-F-2025/score-service/internal/config"
	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/services"
	"github.com/SAP-F-2025/score-service/internal/session"
	"github.com/SAP-F-2025/score-service/internal/utils"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

const APIPrefix = "/api/v1"

type HandlerManager struct {
	scoreHandler   *ScoreHandler
	studentHandler *StudentHandler
	userHandler    *UserHandler
	courseHandler  *CourseHandler
	authHandler    *AuthHandler
	authMiddleware *AuthMiddleware

	serviceManager services.ServiceManager
	sessionStore   *session.Store
	localLogin     bool
}

type HandlerManagerConfig struct {
	Config         *config.Config
	ServiceManager services.ServiceManager
	Sessions       *session.Manager
	SessionStore   *session.Store
	Casdoor        CasdoorVerifier
	Validator      *validator.Validator
	Logger         utils.Logger
}

func NewHandlerManager(cfg HandlerManagerConfig) *HandlerManager {
	sm := cfg.ServiceManager

	return &HandlerManager{
		scoreHandler:   NewScoreHandler(sm.Score(), sm.Export(), cfg.Validator, cfg.Logger),
		studentHandler: NewStudentHandler(sm.Student(), cfg.Validator, cfg.Logger),
		userHandler:    NewUserHandler(sm.Principal(), cfg.Validator, cfg.Logger),
		courseHandler:  NewCourseHandler(sm.Course(), cfg.Logger),
		authHandler: NewAuthHandler(AuthHandlerConfig{
			Principals:   sm.Principal(),
			Sessions:     cfg.Sessions,
			Validator:    cfg.Validator,
			CookieName:   cfg.Config.Session.CookieName,
			SecureCookie: cfg.Config.Session.Secure,
			Logger:       cfg.Logger,
		}),
		authMiddleware: NewAuthMiddleware(AuthMiddlewareConfig{
			Provider:   cfg.Config.AuthProvider,
			CookieName: cfg.Config.Session.CookieName,
			Sessions:   cfg.Sessions,
			Casdoor:    cfg.Casdoor,
			Principals: sm.Principal(),
			Logger:     cfg.Logger,
		}),
		serviceManager: sm,
		sessionStore:   cfg.SessionStore,
		localLogin:     cfg.Config.AuthProvider == config.AuthProviderLocal,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group(APIPrefix)

	// Credentials are only accepted by the local provider
	if hm.localLogin {
		v1.POST("/auth/login", hm.authHandler.Login)
	}

	authed := v1.Group("")
	authed.Use(hm.authMiddleware.Authenticate())
	authed.Use(hm.authMiddleware.PathPolicyMiddleware(APIPrefix))
	{
		authed.POST("/auth/logout", hm.authHandler.Logout)
		authed.GET("/auth/session", hm.authHandler.GetSession)

		authed.GET("/scores", hm.scoreHandler.GetScores)
		authed.GET("/scores/export", hm.scoreHandler.ExportScores)
		authed.GET("/students", hm.studentHandler.ListStudents)
		authed.GET("/users", hm.userHandler.GetUser)

		// Teacher routes - Teachers and Admins only
		teacher := authed.Group("/teacher")
		teacher.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			teacher.GET("/courses", hm.courseHandler.ListCourses)
		}

		// Admin routes - Admins only
		admin := authed.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/users", hm.userHandler.ListUsers)
		}
	}
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "sessions": "ok"}

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	}
	if hm.sessionStore != nil && hm.sessionStore.Available() {
		if err := hm.sessionStore.HealthCheck(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["sessions"] = "unavailable"
		}
	} else {
		checks["sessions"] = "disabled"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":  state,
		"service": "score-service",
		"checks":  checks,
	})
}
