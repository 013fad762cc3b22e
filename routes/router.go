package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/mforum/config"
	"github.com/cppla/mforum/controllers"
	"github.com/cppla/mforum/middleware"
	"github.com/cppla/mforum/repository"
	"github.com/cppla/mforum/services"
	"github.com/cppla/mforum/storage"
	"github.com/cppla/mforum/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, blobs storage.BlobStore) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file; without one it shares the application logger
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err != nil {
			utils.Sugar.Warnf("gin log %s unavailable, using application logger: %v", cfg.GinPath, err)
		} else {
			accessLog = gl
		}
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, false))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	maxUpload := cfg.MaxUploadBytes()

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	tokens := utils.NewTokenManager(cfg.JWTSecret, ttl)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	authService := services.NewAuthService(users, utils.NewPasswordHasher(cfg.BcryptCost), tokens)
	avatarService := services.NewAvatarService(users, blobs, maxUpload)

	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(users, avatarService, maxUpload)
	postController := controllers.NewPostController(posts)
	authRequired := middleware.AuthRequired(authService)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)

	usersGroup := api.Group("/users")
	usersGroup.GET("/me", authRequired, userController.Me)
	usersGroup.GET("/:id", authRequired, middleware.SelfOnly("id"), userController.GetUser)
	usersGroup.GET("/:id/avatar", userController.GetAvatar)
	// ownership is settled before the body is limited or read
	usersGroup.POST("/:id/avatar", authRequired, middleware.SelfOnly("id"), middleware.BodyLimit(maxUpload), userController.UploadAvatar)

	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/comments", postController.ListComments)
	api.GET("/categories", postController.ListCategories)

	protected := api.Group("")
	protected.Use(authRequired)
	protected.POST("/posts", postController.CreatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/comments", postController.CreateComment)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
	})

	return r
}
