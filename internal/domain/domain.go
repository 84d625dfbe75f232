package domain

import "fmt"

// MissionState - нормализованное человекочитаемое состояние миссии
type MissionState string

const (
	StateNone       MissionState = ""
	StateCharging   MissionState = "Charging"
	StateNew        MissionState = "New Mission"
	StateRunning    MissionState = "Running"
	StateRecharging MissionState = "Recharging"
	StateStuck      MissionState = "Stuck"
	StateUserDock   MissionState = "User Docking"
	StateDocking    MissionState = "Docking"
	StateDockEnd    MissionState = "Docking - End Mission"
	StateCancelled  MissionState = "Cancelled"
	StateCompleted  MissionState = "Mission Completed"
	StateStopped    MissionState = "Stopped"
	StatePaused     MissionState = "Paused"
	StateEndMission MissionState = "End Mission"
	StateEmptying   MissionState = "Emptying Bin"
	StateUnplugged  MissionState = "Base Unplugged"
)

// Низкоуровневые фазы, которые сообщает робот
const (
	PhaseCharge    = "charge"
	PhaseNew       = "new"
	PhaseRun       = "run"
	PhaseResume    = "resume"
	PhaseMidDock   = "hmMidMsn"
	PhaseRecharge  = "recharge"
	PhaseStuck     = "stuck"
	PhaseUserDock  = "hmUsrDock"
	PhaseDock      = "dock"
	PhaseDockEnd   = "dockend"
	PhaseCancelled = "cancelled"
	PhaseCompleted = "completed"
	PhaseStop      = "stop"
	PhasePause     = "pause"
	PhasePostDock  = "hmPostMsn"
	PhaseEvac      = "evac"
	PhaseChgError  = "chargingerror"
)

// CycleNone - значение cycle при отсутствии активной миссии
const CycleNone = "none"

// phaseStates - отображение фазы робота в состояние миссии
var phaseStates = map[string]MissionState{
	PhaseCharge:    StateCharging,
	PhaseNew:       StateNew,
	PhaseRun:       StateRunning,
	PhaseResume:    StateRunning,
	PhaseMidDock:   StateDocking,
	PhaseRecharge:  StateRecharging,
	PhaseStuck:     StateStuck,
	PhaseUserDock:  StateUserDock,
	PhaseDock:      StateDocking,
	PhaseDockEnd:   StateDockEnd,
	PhaseCancelled: StateCancelled,
	PhaseCompleted: StateCompleted,
	PhaseStop:      StateStopped,
	PhasePause:     StatePaused,
	PhasePostDock:  StateEndMission,
	PhaseEvac:      StateEmptying,
	PhaseChgError:  StateUnplugged,
	"":             StateNone,
}

// StateForPhase возвращает состояние миссии для фазы робота.
// Второе значение false означает неизвестную фазу.
func StateForPhase(phase string) (MissionState, bool) {
	state, ok := phaseStates[phase]
	return state, ok
}

// Docked сообщает, находится ли робот на док-станции в данном состоянии.
// В этих состояниях робот передает замороженные координаты.
func (s MissionState) Docked() bool {
	switch s {
	case StateCharging, StateRecharging, StateDockEnd, StateEmptying:
		return true
	}
	return false
}

// Flag - имя флага аномалии
type Flag string

const (
	FlagStuck      Flag = "stuck"
	FlagBinFull    Flag = "bin_full"
	FlagBatteryLow Flag = "battery_low"
	FlagTankLow    Flag = "tank_low"
	FlagCancelled  Flag = "cancelled"
	FlagNewMission Flag = "new_mission"
)

// TimerIgnoreRun - окно подавления ложных показаний phase/cycle
// после докинга и завершения миссии
const TimerIgnoreRun = "ignore_run"

// Pose - сырая точка позиции в системе координат робота.
// Theta: 0 = направление от дока, рост против часовой стрелки,
// после 180 градусов значения отрицательные.
type Pose struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Theta int `json:"theta"`
}

// ZeroPose возвращает позицию дока с заданным углом
func ZeroPose(theta int) Pose {
	return Pose{X: 0, Y: 0, Theta: theta}
}

// ImagePosition - позиция в пиксельных координатах карты
type ImagePosition struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Theta int `json:"theta"`
}

// Point - пара координат в системе робота
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// errorMessages - расшифровка кодов ошибок робота
var errorMessages = map[int]string{
	0:   "None",
	1:   "Left wheel off floor",
	2:   "Main brushes stuck",
	3:   "Right wheel off floor",
	4:   "Left wheel stuck",
	5:   "Right wheel stuck",
	6:   "Stuck near a cliff",
	7:   "Left wheel error",
	8:   "Bin error",
	9:   "Bumper stuck",
	10:  "Right wheel error",
	11:  "Bin error",
	12:  "Cliff sensor issue",
	13:  "Both wheels off floor",
	14:  "Bin missing",
	15:  "Reboot required",
	16:  "Bumped unexpectedly",
	17:  "Path blocked",
	18:  "Docking issue",
	19:  "Undocking issue",
	20:  "Docking issue",
	21:  "Navigation problem",
	22:  "Navigation problem",
	23:  "Battery issue",
	24:  "Navigation problem",
	25:  "Reboot required",
	26:  "Vacuum problem",
	27:  "Vacuum problem",
	29:  "Software update needed",
	30:  "Vacuum problem",
	31:  "Reboot required",
	32:  "Smart map problem",
	33:  "Path blocked",
	34:  "Reboot required",
	35:  "Unrecognised cleaning pad",
	36:  "Bin full",
	37:  "Tank needed refilling",
	38:  "Vacuum problem",
	39:  "Reboot required",
	40:  "Navigation problem",
	41:  "Timed out",
	42:  "Localization problem",
	43:  "Navigation problem",
	44:  "Pump issue",
	45:  "Lid open",
	46:  "Low battery",
	47:  "Reboot required",
	48:  "Path blocked",
	52:  "Pad required attention",
	53:  "Software update required",
	65:  "Hardware problem detected",
	66:  "Low memory",
	68:  "Hardware problem detected",
	73:  "Pad type changed",
	74:  "Max area reached",
	75:  "Navigation problem",
	76:  "Hardware problem detected",
	88:  "Back-up refused",
	89:  "Mission runtime too long",
	101: "Battery isn't connected",
	102: "Charging error",
	103: "Charging error",
	104: "No charge current",
	105: "Charging current too low",
	106: "Battery too warm",
	107: "Battery temperature incorrect",
	108: "Battery communication failure",
	109: "Battery error",
	110: "Battery cell imbalance",
	111: "Battery communication failure",
	112: "Invalid charging load",
	114: "Internal battery failure",
	115: "Cell failure during charging",
	116: "Charging error of Home Base",
	118: "Battery communication failure",
	119: "Charging timeout",
	120: "Battery not initialized",
	122: "Charging system error",
	123: "Battery not initialized",
}

// notReadyMessages - расшифровка кодов неготовности робота
var notReadyMessages = map[int]string{
	0:  "N/A",
	2:  "Uneven Ground",
	15: "Low Battery",
	39: "Pending",
	48: "Path Blocked",
}

// ErrorMessage возвращает текст для кода ошибки робота
func ErrorMessage(num int) string {
	if msg, ok := errorMessages[num]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown Error number: %d", num)
}

// NotReadyMessage возвращает текст для кода неготовности
func NotReadyMessage(num int) string {
	if msg, ok := notReadyMessages[num]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown not ready number: %d", num)
}
