package entities

import "time"

// MissionRecord - итог одной завершенной миссии уборки
type MissionRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Blid           string    `gorm:"index;not null" json:"blid"`
	Cycle          string    `gorm:"not null" json:"cycle"`
	FinalState     string    `gorm:"not null" json:"final_state"` // Mission Completed / Cancelled
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	RuntimeMinutes int       `json:"runtime_minutes"`
	MinX           int       `json:"min_x"` // границы посещенных координат
	MinY           int       `json:"min_y"`
	MaxX           int       `json:"max_x"`
	MaxY           int       `json:"max_y"`
	Samples        int       `json:"samples"` // принятых точек пути
	CreatedAt      time.Time `json:"created_at"`
}
