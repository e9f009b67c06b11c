package router

import (
	"fmt"
	"net/http"
	"time"

	apphttp "film_catalog_backend/internal/http"
	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const msgInternal = "internal server error"

// New assembles the gin engine: global middleware, health probe, and every
// module's routes on the public and protected groups.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		app.Logger.Error("panic recovered", "panic", fmt.Sprint(recovered), "method", c.Request.Method, "path", c.Request.URL.Path)
		status, body := httpkit.Translate(apperr.Internal(msgInternal))
		c.AbortWithStatusJSON(status, body)
	}))
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))
	engine.Use(httpkit.ErrorHandler(app.Logger))

	engine.GET("/health", func(c *gin.Context) {
		if app.Health != nil {
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				app.Logger.DatabaseError("health ping", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.NoRoute(func(c *gin.Context) {
		httpkit.Fail(c, apperr.NotFound("route not found"))
	})

	authMiddleware := httpkit.Logged(app.Tokens)
	routerCtx := &apphttp.RouterContext{
		Engine:         engine,
		Public:         engine.Group(""),
		Protected:      engine.Group("", authMiddleware),
		AuthMiddleware: authMiddleware,
	}

	for _, module := range app.Modules {
		app.Logger.Info("registering module routes", "module", module.Name())
		module.RegisterRoutes(routerCtx)
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}
