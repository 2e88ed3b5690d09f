package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"portfolio-feedback/internal/admin"
)

// Options tune the router. A nil Admin leaves the /admin pages unmounted.
type Options struct {
	CORSOrigins []string
	Debug       bool
	Admin       *admin.Handler
}

func NewRouter(h *Handler, opts Options) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	router.Use(cors.New(corsConfig))

	h.Register(router)
	if opts.Admin != nil {
		opts.Admin.Register(router.Group("/admin"))
	}
	return router
}
