package handlers

import (
	"net/http"
	"strconv"

	"github.com/iwtcode/roombaService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetState возвращает текущее состояние робота:
// интерпретированное состояние миссии, флаги, фазу и позицию.
func (h *Handler) GetState(c *gin.Context) {
	status := h.usecase.Status()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "robot": status})
}

// GetMap отдает PNG-карту текущей миссии. Размер итогового
// изображения задается query-параметрами width и height.
func (h *Handler) GetMap(c *gin.Context) {
	width := queryInt(c, "width", 0)
	height := queryInt(c, "height", 0)

	data, err := h.usecase.RenderMap(width, height)
	if err != nil {
		h.InternalError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

// SendCommand отправляет роботу команду управления миссией
func (h *Handler) SendCommand(c *gin.Context) {
	var req models.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Sending command to robot", "command", req.Command)

	if err := h.usecase.SendCommand(req); err != nil {
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetPreference изменяет настройку робота
func (h *Handler) SetPreference(c *gin.Context) {
	var req models.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Setting robot preference", "preference", req.Preference)

	if err := h.usecase.SetPreference(req); err != nil {
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}
