package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

type watchHandler struct {
	watchService portssvc.WatchSvc
}

func registerWatchRoutes(rg *gin.RouterGroup, ws portssvc.WatchSvc) {
	h := &watchHandler{watchService: ws}
	rg.GET("/watch/:id", h.watch)
}

// watch godoc
// @Summary Watch a batch
// @Description Returns the status of a rate, unit or expression batch.
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} domain.BatchStatus
// @Failure 400 {object} map[string]string "Invalid batch ID"
// @Failure 404 {object} map[string]string "Batch not found"
// @Router /watch/{id} [get]
func (h *watchHandler) watch(c *gin.Context) {
	status, err := h.watchService.Watch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to watch batch")
		return
	}
	c.JSON(http.StatusOK, status)
}
