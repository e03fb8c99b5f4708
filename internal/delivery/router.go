package delivery

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	ServiceName    string
	CORSOrigins    []string
	MaxUploadBytes int64
}

type Handlers struct {
	Category *CategoryHandler
	Product  *ProductHandler
	Cart     *CartHandler
	Auth     *AuthHandler
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func NewRouter(cfg RouterConfig, handlers Handlers, verifier TokenVerifier, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to " + cfg.ServiceName})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticated := Authenticate(verifier, logger)
	handlers.Auth.RegisterRoutes(router, authenticated)
	handlers.Category.RegisterRoutes(router, authenticated)
	handlers.Product.RegisterRoutes(router, authenticated)
	handlers.Cart.RegisterRoutes(router, authenticated)

	logger.Info("Router: All routes registered")
	return router
}
