package roomba_service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iwtcode/roombaService/internal/middleware/logging"
)

const (
	commandTopic = "cmd"
	settingTopic = "delta"
)

// CommandSender публикует управляющие сообщения роботу
type CommandSender struct {
	client *RobotClient
	logger *logging.Logger
}

func NewCommandSender(client *RobotClient, logger *logging.Logger) *CommandSender {
	return &CommandSender{
		client: client,
		logger: logger.WithPrefix("COMMAND"),
	}
}

// SendCommand отправляет команду управления миссией ("start", "stop",
// "pause", "resume", "dock"...). Дополнительные параметры вливаются
// в корень сообщения.
func (cs *CommandSender) SendCommand(command string, params map[string]interface{}) error {
	if command == "" {
		return fmt.Errorf("пустая команда")
	}

	message := map[string]interface{}{
		"command":   command,
		"time":      time.Now().Unix(),
		"initiator": "localApp",
	}
	for k, v := range params {
		message[k] = v
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать команду '%s': %w", command, err)
	}

	cs.logger.Debug("Publishing command", "command", command)
	return cs.client.Publish(commandTopic, payload)
}

// SetPreference изменяет настройку робота через shadow-дельту.
// Строки "true"/"false" приводятся к булевому типу.
func (cs *CommandSender) SetPreference(preference string, value interface{}) error {
	if preference == "" {
		return fmt.Errorf("пустое имя настройки")
	}

	if s, ok := value.(string); ok {
		switch strings.ToLower(s) {
		case "true":
			value = true
		case "false":
			value = false
		}
	}

	message := map[string]interface{}{
		"state": map[string]interface{}{preference: value},
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать настройку '%s': %w", preference, err)
	}

	cs.logger.Debug("Publishing setting", "preference", preference)
	return cs.client.Publish(settingTopic, payload)
}
