package usecases

import (
	"fmt"

	"github.com/iwtcode/roombaService/internal/domain/entities"
	"github.com/iwtcode/roombaService/internal/domain/models"
	"github.com/iwtcode/roombaService/internal/interfaces"
)

const defaultMissionLimit = 20

type Usecase struct {
	roombaSvc   interfaces.RoombaService
	missionRepo interfaces.MissionRepository
}

func NewUsecase(roombaSvc interfaces.RoombaService, missionRepo interfaces.MissionRepository) interfaces.Usecases {
	return &Usecase{
		roombaSvc:   roombaSvc,
		missionRepo: missionRepo,
	}
}

func (u *Usecase) Connect() error {
	return u.roombaSvc.Connect()
}

func (u *Usecase) Disconnect() error {
	return u.roombaSvc.Disconnect()
}

func (u *Usecase) Status() models.RobotStatus {
	return u.roombaSvc.Status()
}

func (u *Usecase) RenderMap(width, height int) ([]byte, error) {
	return u.roombaSvc.RenderMap(width, height)
}

func (u *Usecase) SendCommand(req models.CommandRequest) error {
	if !u.roombaSvc.IsConnected() {
		return fmt.Errorf("не удалось отправить команду '%s': нет подключения к роботу", req.Command)
	}
	return u.roombaSvc.SendCommand(req.Command, req.Params)
}

func (u *Usecase) SetPreference(req models.PreferenceRequest) error {
	if !u.roombaSvc.IsConnected() {
		return fmt.Errorf("не удалось изменить настройку '%s': нет подключения к роботу", req.Preference)
	}
	return u.roombaSvc.SetPreference(req.Preference, req.Value)
}

func (u *Usecase) ListMissions(limit int) ([]entities.MissionRecord, error) {
	if limit <= 0 {
		limit = defaultMissionLimit
	}
	return u.missionRepo.List(limit)
}
