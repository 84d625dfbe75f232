package handlers

import (
	"net/http"

	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/interfaces"
	"github.com/iwtcode/roombaService/internal/middleware/logging"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase interfaces.Usecases
	logger  *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.Default()

	// Logger Middleware
	router.Use(LoggingMiddleware(h.logger))

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		robot := v1.Group("/robot")
		{
			robot.GET("/state", h.GetState)
			robot.GET("/map", h.GetMap)
			robot.POST("/command", h.SendCommand)
			robot.POST("/setting", h.SetPreference)
		}

		session := v1.Group("/session")
		{
			session.POST("/connect", h.Connect)
			session.POST("/disconnect", h.Disconnect)
		}

		v1.GET("/missions", h.ListMissions)
	}

	return router
}
