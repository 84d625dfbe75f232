package roomba_service

import (
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
)

// robotLink - минимальный контракт клиента, нужный менеджеру подключений
type robotLink interface {
	Connect() error
	Disconnect()
	IsConnected() bool
}

// ConnectionManager управляет жизненным циклом подключения к роботу.
// В непрерывном режиме держит одно постоянное подключение, в
// периодическом - крутит цикл подключений с паузой, не допуская
// более одного цикла одновременно.
type ConnectionManager struct {
	mu     sync.Mutex
	cfg    *config.RobotConfig
	client robotLink
	logger *logging.Logger

	connected   bool
	loopRunning bool
	stopLoop    bool
}

func NewConnectionManager(cfg *config.RobotConfig, client robotLink, logger *logging.Logger) *ConnectionManager {
	return &ConnectionManager{
		cfg:    cfg,
		client: client,
		logger: logger.WithPrefix("CONNECTOR"),
	}
}

// Connect устанавливает подключение к роботу. В периодическом режиме
// запускает фоновый цикл; повторный вызов при активном цикле - ошибка.
func (cm *ConnectionManager) Connect() error {
	cm.mu.Lock()
	if cm.connected || cm.loopRunning {
		cm.mu.Unlock()
		return fmt.Errorf("подключение к роботу '%s' уже активно", cm.cfg.Name)
	}
	cm.mu.Unlock()

	if cm.cfg.Continuous {
		cm.logger.Info("Connecting in continuous mode", "address", cm.cfg.Address)
		if err := cm.client.Connect(); err != nil {
			return err
		}
		cm.setConnected(true)
		return nil
	}

	cm.logger.Info("Connecting in periodic mode",
		"address", cm.cfg.Address, "delay_ms", cm.cfg.DelayMs)

	// Первая попытка выполняется синхронно, чтобы вызывающий
	// сразу узнал о неверных учетных данных или недоступном роботе
	if err := cm.client.Connect(); err != nil {
		return err
	}
	cm.setConnected(true)

	cm.mu.Lock()
	cm.loopRunning = true
	cm.stopLoop = false
	cm.mu.Unlock()
	go cm.periodicLoop()

	return nil
}

// periodicLoop переподключается к роботу с заданной паузой. Робот
// принимает единственного клиента, поэтому между циклами подключение
// отпускается, позволяя фирменному приложению достучаться до робота.
func (cm *ConnectionManager) periodicLoop() {
	delay := time.Duration(cm.cfg.DelayMs) * time.Millisecond

	for {
		time.Sleep(delay)

		cm.mu.Lock()
		stop := cm.stopLoop
		cm.mu.Unlock()
		if stop {
			break
		}

		if !cm.client.IsConnected() {
			if err := cm.client.Connect(); err != nil {
				cm.logger.Warn("Periodic reconnect failed, stopping loop", "error", err)
				cm.mu.Lock()
				cm.loopRunning = false
				cm.mu.Unlock()
				// обрыв сообщается тем же путем, что и потеря живого подключения
				cm.OnConnectionLost(err)
				return
			}
			cm.setConnected(true)
		}
	}

	cm.client.Disconnect()
	cm.setConnected(false)
	cm.mu.Lock()
	cm.loopRunning = false
	cm.mu.Unlock()
	cm.logger.Info("Periodic connection loop stopped")
}

// Disconnect завершает подключение. В периодическом режиме цикл
// останавливается флагом и сам закрывает подключение.
func (cm *ConnectionManager) Disconnect() error {
	cm.mu.Lock()
	loop := cm.loopRunning
	if loop {
		cm.stopLoop = true
	}
	cm.mu.Unlock()

	if !loop {
		cm.client.Disconnect()
		cm.setConnected(false)
	}
	return nil
}

// IsConnected сообщает о наличии живого подключения к роботу
func (cm *ConnectionManager) IsConnected() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.connected && cm.client.IsConnected()
}

// OnConnectionLost вызывается при обрыве подключения: как клиентом при
// потере живого соединения, так и периодическим циклом при неудачном
// переподключении
func (cm *ConnectionManager) OnConnectionLost(err error) {
	cm.logger.Warn("Connection to robot lost", "error", err)
	cm.setConnected(false)
}

func (cm *ConnectionManager) loopActive() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.loopRunning
}

func (cm *ConnectionManager) setConnected(v bool) {
	cm.mu.Lock()
	cm.connected = v
	cm.mu.Unlock()
}
