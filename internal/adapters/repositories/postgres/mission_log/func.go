package mission_log

import (
	"github.com/iwtcode/roombaService/internal/domain/entities"
)

// Save сохраняет запись о завершенной миссии
func (r *RepositoryImpl) Save(record *entities.MissionRecord) error {
	return r.db.Create(record).Error
}

// List возвращает последние записи журнала миссий,
// отсортированные по времени завершения
func (r *RepositoryImpl) List(limit int) ([]entities.MissionRecord, error) {
	var records []entities.MissionRecord
	err := r.db.Order("ended_at desc").Limit(limit).Find(&records).Error
	return records, err
}

func (r *noopRepository) Save(record *entities.MissionRecord) error {
	return nil
}

func (r *noopRepository) List(limit int) ([]entities.MissionRecord, error) {
	return []entities.MissionRecord{}, nil
}
