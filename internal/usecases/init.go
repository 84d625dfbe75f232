package usecases

import "github.com/iwtcode/roombaService/internal/interfaces"

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.Usecases
}

// NewUsecases - конструктор для UseCases
func NewUsecases(
	roombaSvc interfaces.RoombaService,
	missionRepo interfaces.MissionRepository,
) interfaces.Usecases {
	return NewUsecase(roombaSvc, missionRepo)
}
