package roomba_service

import (
	"crypto/tls"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
)

const (
	robotMqttPort  = 8883
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	// Робот принимает ровно одно подключение, подписка всегда на все топики
	robotTopic = "#"
)

// MessageHandler вызывается на каждый принятый фрагмент телеметрии
type MessageHandler func(topic string, payload []byte)

// RobotClient оборачивает MQTT-подключение к роботу. Робот выступает
// собственным брокером: TLS на порту 8883, blid в роли client id и
// username, самоподписанный сертификат без проверки цепочки.
type RobotClient struct {
	client  mqtt.Client
	cfg     *config.RobotConfig
	logger  *logging.Logger
	handler MessageHandler

	onLost func(err error)
}

func NewRobotClient(cfg *config.RobotConfig, handler MessageHandler, onLost func(err error), logger *logging.Logger) *RobotClient {
	rc := &RobotClient{
		cfg:     cfg,
		logger:  logger.WithPrefix("MQTT"),
		handler: handler,
		onLost:  onLost,
	}
	rc.client = mqtt.NewClient(rc.clientOptions())
	return rc
}

func (rc *RobotClient) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("ssl://%s:%d", rc.cfg.Address, robotMqttPort))
	opts.SetClientID(rc.cfg.Blid)
	opts.SetUsername(rc.cfg.Blid)
	opts.SetPassword(rc.cfg.Password)
	opts.SetProtocolVersion(4)
	opts.SetCleanSession(false)
	opts.SetAutoReconnect(false)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetTLSConfig(&tls.Config{
		// Прошивка робота отдает самоподписанный сертификат
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
	})

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		rc.logger.Info("Connected to robot", "address", rc.cfg.Address)
		token := client.Subscribe(robotTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			rc.handler(msg.Topic(), msg.Payload())
		})
		if token.WaitTimeout(publishTimeout) && token.Error() != nil {
			rc.logger.Error("Failed to subscribe to robot topics", "error", token.Error())
		}
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		rc.logger.Warn("Connection to robot lost", "address", rc.cfg.Address, "error", err)
		if rc.onLost != nil {
			rc.onLost(err)
		}
	})

	return opts
}

// Connect выполняет одну попытку подключения к роботу
func (rc *RobotClient) Connect() error {
	token := rc.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("таймаут подключения к роботу %s", rc.cfg.Address)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("не удалось подключиться к роботу %s: %w", rc.cfg.Address, err)
	}
	return nil
}

// Disconnect завершает подключение
func (rc *RobotClient) Disconnect() {
	if rc.client.IsConnected() {
		rc.client.Disconnect(250)
	}
}

// IsConnected сообщает о наличии активного подключения
func (rc *RobotClient) IsConnected() bool {
	return rc.client.IsConnectionOpen()
}

// Publish отправляет сообщение роботу
func (rc *RobotClient) Publish(topic string, payload []byte) error {
	if !rc.client.IsConnectionOpen() {
		return fmt.Errorf("нет подключения к роботу %s", rc.cfg.Address)
	}
	token := rc.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("таймаут публикации в топик '%s'", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("ошибка публикации в топик '%s': %w", topic, err)
	}
	return nil
}
