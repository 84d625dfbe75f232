package mission_log

import (
	"github.com/iwtcode/roombaService/internal/interfaces"

	"gorm.io/gorm"
)

// RepositoryImpl реализует хранение журнала миссий в PostgreSQL
type RepositoryImpl struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) interfaces.MissionRepository {
	return &RepositoryImpl{db: db}
}

// noopRepository используется, когда журнал миссий отключен конфигурацией
type noopRepository struct{}

func NewNoopMissionRepository() interfaces.MissionRepository {
	return &noopRepository{}
}
