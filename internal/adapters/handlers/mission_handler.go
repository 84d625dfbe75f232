package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListMissions возвращает журнал завершенных миссий
func (h *Handler) ListMissions(c *gin.Context) {
	limit := queryInt(c, "limit", 0)

	missions, err := h.usecase.ListMissions(limit)
	if err != nil {
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"count":    len(missions),
		"missions": missions,
	})
}
