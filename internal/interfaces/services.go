package interfaces

import (
	"github.com/iwtcode/roombaService/internal/domain/models"
	"github.com/iwtcode/roombaService/internal/services/mapping"
)

// RoombaService - это агрегирующий интерфейс для всей бизнес-логики.
type RoombaService interface {
	SessionManager
	MapProvider
}

// SessionManager определяет контракт для управления сессией робота.
type SessionManager interface {
	Connect() error
	Disconnect() error
	IsConnected() bool
	SendCommand(command string, params map[string]interface{}) error
	SetPreference(preference string, value interface{}) error
	Status() models.RobotStatus
}

// MapProvider определяет контракт для работы с картой миссии.
type MapProvider interface {
	RenderMap(width, height int) ([]byte, error)
	SetMapDefinition(def *mapping.Definition)
	RegisterIconSet(name string, set *mapping.IconSet)
}
