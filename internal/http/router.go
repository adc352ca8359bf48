package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/dimonss/BirthdayBackend/internal/http/handlers"
	httpMW "github.com/dimonss/BirthdayBackend/internal/http/middleware"
)

type RouterConfig struct {
	HealthHandler *httpH.HealthHandler
	PagesHandler  *httpH.PagesHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.RequestID())
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.PagesHandler != nil {
		r.GET("/pages", cfg.PagesHandler.ListPages)
	}

	return r
}
