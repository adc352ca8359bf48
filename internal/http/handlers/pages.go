package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dimonss/BirthdayBackend/internal/http/response"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
	"github.com/dimonss/BirthdayBackend/internal/storage"
)

type PagesHandler struct {
	assets storage.Store
	log    *logger.Logger
}

func NewPagesHandler(assets storage.Store, baseLog *logger.Logger) *PagesHandler {
	return &PagesHandler{assets: assets, log: baseLog.With("handler", "PagesHandler")}
}

// GET /pages
// Lists the published page directories, most recently modified first.
func (h *PagesHandler) ListPages(c *gin.Context) {
	folders, err := h.assets.ListPublished()
	if err != nil {
		h.log.Error("list pages failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "pages_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}
