package interfaces

import (
	"github.com/iwtcode/roombaService/internal/domain/entities"
	"github.com/iwtcode/roombaService/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	Connect() error
	Disconnect() error
	Status() models.RobotStatus
	RenderMap(width, height int) ([]byte, error)
	SendCommand(req models.CommandRequest) error
	SetPreference(req models.PreferenceRequest) error
	ListMissions(limit int) ([]entities.MissionRecord, error)
}
