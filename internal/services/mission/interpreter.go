package mission

import (
	"time"

	"github.com/iwtcode/roombaService/internal/domain"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
	"github.com/iwtcode/roombaService/internal/services/telemetry"
)

const (
	// Сколько держать состояние New, пока фаза не подтвердила запуск
	newMissionTimeout = 20 * time.Second
	// Окно подавления после фаз возврата на док
	ignoreAfterDocking = 10 * time.Second
	// Окно подавления после завершения миссии
	ignoreAfterFinish = 5 * time.Second
)

// Result - итог одного прохода интерпретатора
type Result struct {
	State        domain.MissionState
	StateChanged bool
	ResetMap     bool
}

// Interpreter восстанавливает устойчивое состояние миссии из шумной
// телеметрии. Робот сообщает переходы phase/cycle с многосекундным
// дрожанием и одиночными ложными кадрами вокруг докинга; известные
// окна глюков поглощаются таймерами вместо сглаживающего фильтра.
type Interpreter struct {
	store   *telemetry.Store
	history *telemetry.Tracker
	flags   *telemetry.FlagSet
	timers  *telemetry.TimerSet
	logger  *logging.Logger

	state            domain.MissionState
	stateEnteredAt   time.Time
	missionStartedAt time.Time
	now              func() time.Time
}

func NewInterpreter(
	store *telemetry.Store,
	history *telemetry.Tracker,
	flags *telemetry.FlagSet,
	timers *telemetry.TimerSet,
	logger *logging.Logger,
) *Interpreter {
	return &Interpreter{
		store:   store,
		history: history,
		flags:   flags,
		timers:  timers,
		logger:  logger.WithPrefix("MISSION"),
		state:   domain.StateNone,
		now:     time.Now,
	}
}

// State возвращает текущее состояние миссии
func (i *Interpreter) State() domain.MissionState {
	return i.state
}

// Flags возвращает набор флагов аномалий
func (i *Interpreter) Flags() *telemetry.FlagSet {
	return i.flags
}

// Update выполняет один проход интерпретатора после слияния телеметрии
func (i *Interpreter) Update() Result {
	cycle := i.updateStringHistory("cycle")
	phase := i.updateStringHistory("phase")
	if pose, ok := i.store.GetNested("pose"); ok {
		i.history.Update("pose", map[string]interface{}(pose))
	}

	i.refreshAnomalyInputs()

	// до первых показаний обоих свойств судить не о чем
	if !i.history.Observed("cycle") || !i.history.Observed("phase") {
		return Result{State: i.state}
	}

	previous := i.state
	resetMap := false
	// окно подавления, взведенное предыдущими событиями; ветка докинга
	// ниже перевзводит таймер, поэтому значение снимается заранее
	ignoreRunArmed := i.timers.IsSet(domain.TimerIgnoreRun)

	switch {
	case i.state == domain.StateNew && phase != domain.PhaseRun:
		// робот еще не подтвердил запуск; после таймаута верим фазе
		if i.now().Sub(i.stateEnteredAt) > newMissionTimeout {
			i.setState(i.mappedState(phase))
		}

	case phase == domain.PhaseRun &&
		(i.timers.IsSet(domain.TimerIgnoreRun) || cycle == domain.CycleNone):
		// одиночный ложный кадр run, состояние не трогаем

	case phase == domain.PhaseCharge && cycle == domain.CycleNone &&
		i.timers.IsSet(domain.TimerIgnoreRun):
		// ложный сброс cycle внутри окна подавления, откатываем историю
		if prev, ok := i.history.Previous("cycle").(string); ok {
			i.history.Set("cycle", prev)
		}

	case phase == domain.PhasePostDock || phase == domain.PhaseMidDock ||
		phase == domain.PhaseUserDock:
		// за фазами возврата следуют ложные показания pose/phase
		i.timers.Arm(domain.TimerIgnoreRun, ignoreAfterDocking)
		i.setState(i.mappedState(phase))

	case i.history.Changed("cycle"):
		if cycle != domain.CycleNone {
			i.setState(domain.StateNew)
			i.missionStartedAt = i.now()
			resetMap = true
		} else {
			if i.BinFull() {
				i.setState(domain.StateCancelled)
			} else {
				i.setState(domain.StateCompleted)
			}
			i.timers.Arm(domain.TimerIgnoreRun, ignoreAfterFinish)
		}

	case phase == domain.PhaseCharge && i.hasRechargeMinutes():
		if i.BinFull() {
			i.setState(domain.StatePaused)
		} else {
			i.setState(domain.StateRecharging)
		}

	default:
		i.setState(i.mappedState(phase))
	}

	i.refreshStateFlags(phase, ignoreRunArmed)

	if i.state != previous {
		i.logger.Debug("State updated",
			"from", string(previous), "to", string(i.state),
			"phase", phase, "cycle", cycle)
	}

	return Result{
		State:        i.state,
		StateChanged: i.state != previous,
		ResetMap:     resetMap,
	}
}

func (i *Interpreter) setState(state domain.MissionState) {
	if state == i.state {
		return
	}
	i.state = state
	i.stateEnteredAt = i.now()
}

func (i *Interpreter) mappedState(phase string) domain.MissionState {
	state, ok := domain.StateForPhase(phase)
	if !ok {
		i.logger.Error("Unknown phase reported by robot", "phase", phase)
		return domain.StateNone
	}
	return state
}

func (i *Interpreter) updateStringHistory(property string) string {
	var value interface{}
	if s, ok := i.store.GetString(property); ok {
		value = s
	}
	current := i.history.Update(property, value)
	if s, ok := current.(string); ok {
		return s
	}
	return ""
}

// refreshAnomalyInputs выводит флаги из сырой телеметрии
// до вычисления нового состояния
func (i *Interpreter) refreshAnomalyInputs() {
	if i.BinFull() {
		i.flags.Set(domain.FlagBinFull)
	} else {
		i.flags.Clear(domain.FlagBinFull)
	}
	if level, ok := i.TankLevel(); ok {
		if level < 100 {
			i.flags.Set(domain.FlagTankLow)
		} else {
			i.flags.Clear(domain.FlagTankLow)
		}
	}
}

// refreshStateFlags обновляет флаги по итоговому состоянию.
// ignoreRunArmed - окно подавления на момент начала прохода
func (i *Interpreter) refreshStateFlags(phase string, ignoreRunArmed bool) {
	switch i.state {
	case domain.StateCharging, domain.StateRecharging:
		i.flags.Clear(domain.FlagBatteryLow, domain.FlagStuck)
	case domain.StateRunning:
		i.flags.Clear(domain.FlagStuck, domain.FlagNewMission)
	case domain.StateNew:
		i.flags.ClearAll()
		i.flags.Set(domain.FlagNewMission)
	case domain.StateStuck:
		i.flags.Set(domain.FlagStuck)
	case domain.StateCancelled:
		i.flags.Set(domain.FlagCancelled)
	case domain.StateDocking:
		if phase == domain.PhaseMidDock && !ignoreRunArmed {
			if i.BinFull() {
				i.flags.Set(domain.FlagBinFull)
			} else {
				i.flags.Set(domain.FlagBatteryLow)
			}
		}
	}
}

// --- Типизированные представления телеметрии ---

// Phase возвращает текущую фазу робота
func (i *Interpreter) Phase() string {
	phase, _ := i.store.GetString("phase")
	return phase
}

// Cycle возвращает имя текущей миссии
func (i *Interpreter) Cycle() string {
	cycle, _ := i.store.GetString("cycle")
	return cycle
}

// Pose возвращает последнюю позицию робота. Телеметрия отдает
// pose как {theta, point:{x,y}}, оси point меняются местами.
func (i *Interpreter) Pose() (domain.Pose, bool) {
	pose, ok := i.store.GetNested("pose")
	if !ok {
		return domain.Pose{}, false
	}
	point, ok := pose["point"].(map[string]interface{})
	if !ok {
		return domain.Pose{}, false
	}
	return domain.Pose{
		X:     asInt(point["y"]),
		Y:     asInt(point["x"]),
		Theta: asInt(pose["theta"]),
	}, true
}

// PoseChanged сообщает, изменилась ли позиция при последнем слиянии
func (i *Interpreter) PoseChanged() bool {
	return i.history.Changed("pose")
}

// PhaseChanged сообщает, изменилась ли фаза при последнем слиянии
func (i *Interpreter) PhaseChanged() bool {
	return i.history.Changed("phase")
}

// BatteryPercent возвращает заряд батареи
func (i *Interpreter) BatteryPercent() int {
	pct, _ := i.store.GetInt("batPct")
	return pct
}

// BinFull сообщает о заполненном мусоросборнике. Новые прошивки
// отдают bin:{full}, старые - плоское bin_full.
func (i *Interpreter) BinFull() bool {
	if full, ok := i.store.GetBool("bin_full"); ok {
		return full
	}
	if bin, ok := i.store.GetNested("bin"); ok {
		if full, ok := bin["full"].(bool); ok {
			return full
		}
	}
	return false
}

// TankLevel возвращает уровень воды в баке (модели с влажной уборкой)
func (i *Interpreter) TankLevel() (int, bool) {
	return i.store.GetInt("tankLvl")
}

// RechargeMinutes возвращает оставшееся время дозарядки
func (i *Interpreter) RechargeMinutes() (int, bool) {
	return i.store.GetInt("rechrgM")
}

func (i *Interpreter) hasRechargeMinutes() bool {
	_, ok := i.store.GetInt("rechrgM")
	return ok
}

// MissionMinutes возвращает длительность миссии в минутах
func (i *Interpreter) MissionMinutes() int {
	if m, ok := i.store.GetInt("mssnM"); ok && m > 0 {
		return m
	}
	if start, ok := i.store.GetNumber("mssnStrtTm"); ok && start > 0 {
		return int(i.now().Sub(time.Unix(int64(start), 0)).Minutes())
	}
	if !i.missionStartedAt.IsZero() {
		return int(i.now().Sub(i.missionStartedAt).Minutes())
	}
	return 0
}

// ExpireMinutes возвращает время до отмены застрявшей миссии
func (i *Interpreter) ExpireMinutes() int {
	m, _ := i.store.GetInt("expireM")
	return m
}

// ErrorNumber возвращает код последней ошибки миссии
func (i *Interpreter) ErrorNumber() int {
	num, _ := i.store.GetInt("error")
	return num
}

// ErrorText возвращает расшифровку последней ошибки миссии
func (i *Interpreter) ErrorText() string {
	return domain.ErrorMessage(i.ErrorNumber())
}

// NotReadyNumber возвращает код причины неготовности к запуску
func (i *Interpreter) NotReadyNumber() int {
	num, _ := i.store.GetInt("notReady")
	return num
}

// NotReadyText возвращает расшифровку причины неготовности
func (i *Interpreter) NotReadyText() string {
	return domain.NotReadyMessage(i.NotReadyNumber())
}

// Sku возвращает артикул модели робота
func (i *Interpreter) Sku() string {
	sku, _ := i.store.GetString("sku")
	return sku
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
