package roomba_service

import (
	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/domain/models"
	"github.com/iwtcode/roombaService/internal/interfaces"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
	"github.com/iwtcode/roombaService/internal/services/mapping"
)

type roombaService struct {
	session *Session
	connMgr *ConnectionManager
	sender  *CommandSender
}

func NewRoombaService(cfg *config.AppConfig, repo interfaces.MissionRepository, producer interfaces.KafkaService, logger *logging.Logger) interfaces.RoombaService {
	session := NewSession(cfg, repo, producer, logger)

	var connMgr *ConnectionManager
	client := NewRobotClient(&cfg.Robot, session.HandleMessage, func(err error) {
		if connMgr != nil {
			connMgr.OnConnectionLost(err)
		}
	}, logger)
	connMgr = NewConnectionManager(&cfg.Robot, client, logger)
	sender := NewCommandSender(client, logger)

	return &roombaService{
		session: session,
		connMgr: connMgr,
		sender:  sender,
	}
}

// --- Реализация методов интерфейса RoombaService ---

func (s *roombaService) Connect() error {
	return s.connMgr.Connect()
}

func (s *roombaService) Disconnect() error {
	return s.connMgr.Disconnect()
}

func (s *roombaService) IsConnected() bool {
	return s.connMgr.IsConnected()
}

func (s *roombaService) SendCommand(command string, params map[string]interface{}) error {
	return s.sender.SendCommand(command, params)
}

func (s *roombaService) SetPreference(preference string, value interface{}) error {
	return s.sender.SetPreference(preference, value)
}

func (s *roombaService) Status() models.RobotStatus {
	return s.session.Status(s.connMgr.IsConnected())
}

func (s *roombaService) RenderMap(width, height int) ([]byte, error) {
	return s.session.RenderMap(width, height)
}

func (s *roombaService) SetMapDefinition(def *mapping.Definition) {
	s.session.SetMapDefinition(def)
}

func (s *roombaService) RegisterIconSet(name string, set *mapping.IconSet) {
	s.session.RegisterIconSet(name, set)
}
