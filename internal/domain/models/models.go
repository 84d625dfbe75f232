package models

import "github.com/iwtcode/roombaService/internal/domain"

// CommandRequest определяет структуру для отправки команды роботу.
type CommandRequest struct {
	Command string                 `json:"command" binding:"required"` // "start", "stop", "pause", "dock"...
	Params  map[string]interface{} `json:"params"`
}

// PreferenceRequest определяет структуру для изменения настройки робота.
type PreferenceRequest struct {
	Preference string      `json:"preference" binding:"required"`
	Value      interface{} `json:"value" binding:"required"`
}

// RobotStatus - снимок текущего состояния робота для API.
type RobotStatus struct {
	Name           string       `json:"name"`
	Blid           string       `json:"blid"`
	Connected      bool         `json:"connected"`
	State          string       `json:"state"`
	Flags          []string     `json:"flags"`
	Phase          string       `json:"phase"`
	Cycle          string       `json:"cycle"`
	BatteryPercent int          `json:"battery_pct"`
	MissionMinutes int          `json:"mission_minutes"`
	BinFull        bool         `json:"bin_full"`
	ErrorMsg       string       `json:"error_msg,omitempty"`
	NotReadyMsg    string       `json:"not_ready_msg,omitempty"`
	Pose           *domain.Pose `json:"pose,omitempty"`
	MinCoords      domain.Point `json:"min_coords"`
	MaxCoords      domain.Point `json:"max_coords"`
}

// StateEvent - событие смены состояния, публикуемое в Kafka.
type StateEvent struct {
	Blid           string   `json:"blid"`
	Name           string   `json:"name"`
	State          string   `json:"state"`
	PreviousState  string   `json:"previous_state"`
	Flags          []string `json:"flags"`
	Phase          string   `json:"phase"`
	Cycle          string   `json:"cycle"`
	BatteryPercent int      `json:"battery_pct"`
	Timestamp      int64    `json:"ts"`
}
