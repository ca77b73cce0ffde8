package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"git.sr.ht/~aondrejcak/trendify-api/auth"
	"git.sr.ht/~aondrejcak/trendify-api/endpoints"
	"git.sr.ht/~aondrejcak/trendify-api/endpoints/admin"
	"git.sr.ht/~aondrejcak/trendify-api/endpoints/cart"
	"git.sr.ht/~aondrejcak/trendify-api/endpoints/contact"
	"git.sr.ht/~aondrejcak/trendify-api/endpoints/newsletter"
	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/middleware"
)

func main() {
	art := kernel.LoadConfig()
	art.Context = context.Background()

	if art.DeploymentEnvironment == "production" {
		log.Info().Msg(" === RUNNING IN PRODUCTION MODE ===")
		gin.SetMode(gin.ReleaseMode)
	}

	cleanupFunc, err := art.SetupOtel()
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer cleanupFunc()

	if err = art.PrepareDatabase(); err != nil {
		log.Fatal().Err(err).Msg("database setup failed")
	}

	store := auth.NewGormStore(art.DatabaseClient)
	fallback := auth.Fallback{Email: art.AdminEmail, Password: art.AdminPassword}
	creds := auth.NewCredentials(store, fallback)
	tokens := auth.NewTokens(art.SecretKey, store, fallback)

	r := gin.Default()
	if err = r.SetTrustedProxies([]string{}); err != nil {
		log.Fatal().Err(err).Msg("failed to set trusted proxies")
	}

	if art.DeploymentEnvironment == "production" {
		r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "a panic occurred, request aborted",
			})
		}))
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"https://trendify.store", "https://admin.trendify.store"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "token"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           7 * 24 * time.Hour,
		}))
	}

	r.Use(otelgin.Middleware(art.ServiceName))
	r.Use(middleware.TracerMiddleware())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "route not found"})
	})

	adminAuth := middleware.AdminAuthMiddleware(tokens)

	admin.RegisterController(r, creds, tokens)
	endpoints.RegisterUserController(r)
	cart.RegisterController(r)
	contact.RegisterController(r, adminAuth)
	newsletter.RegisterController(r, adminAuth)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err = r.Run(art.Host); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
