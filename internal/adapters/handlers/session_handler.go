package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Connect устанавливает подключение к роботу
func (h *Handler) Connect(c *gin.Context) {
	h.logger.Info("Attempting to connect to robot")

	if err := h.usecase.Connect(); err != nil {
		h.Conflict(c, err, "Unable to connect to robot")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Disconnect завершает подключение к роботу
func (h *Handler) Disconnect(c *gin.Context) {
	h.logger.Info("Disconnecting from robot")

	if err := h.usecase.Disconnect(); err != nil {
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
