package app

import (
	apihttp "github.com/dimonss/BirthdayBackend/internal/http"
	httpH "github.com/dimonss/BirthdayBackend/internal/http/handlers"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
	"github.com/dimonss/BirthdayBackend/internal/storage"
)

type apiServer = apihttp.Server

func wireAPI(cfg Config, assets storage.Store, log *logger.Logger) *apiServer {
	return apihttp.NewServer(apihttp.RouterConfig{
		HealthHandler: httpH.NewHealthHandler(),
		PagesHandler:  httpH.NewPagesHandler(assets, log),
	})
}
