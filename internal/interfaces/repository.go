package interfaces

import "github.com/iwtcode/roombaService/internal/domain/entities"

// MissionRepository определяет контракт для хранилища итогов миссий
type MissionRepository interface {
	Save(record *entities.MissionRecord) error
	List(limit int) ([]entities.MissionRecord, error)
}
