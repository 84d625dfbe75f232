package mission

import (
	"testing"
	"time"

	"github.com/iwtcode/roombaService/internal/domain"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
	"github.com/iwtcode/roombaService/internal/services/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock дает управляемое время таймерам и интерпретатору
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestInterpreter() (*Interpreter, *telemetry.Store, *testClock) {
	clock := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := telemetry.NewStore()
	history := telemetry.NewTracker()
	flags := telemetry.NewFlagSet()
	timers := telemetry.NewTimerSetWithClock(clock.now)
	logger := logging.NewLogger(&logging.Config{Enabled: false}, "TEST")

	interp := NewInterpreter(store, history, flags, timers, logger)
	interp.now = clock.now
	return interp, store, clock
}

// frame сливает один фрагмент телеметрии и делает проход интерпретатора
func frame(interp *Interpreter, store *telemetry.Store, doc telemetry.Document) Result {
	store.Merge(doc)
	return interp.Update()
}

func missionFrame(cycle, phase string) telemetry.Document {
	return telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{
			"cycle": cycle,
			"phase": phase,
		},
	}
}

func TestNoJudgmentBeforeBothPropertiesObserved(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	res := frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{"phase": "charge"},
	})

	assert.Equal(t, domain.StateNone, res.State)
	assert.False(t, res.StateChanged)
	assert.False(t, res.ResetMap)

	// после появления cycle состояние следует фазе
	res = frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{"cycle": "none"},
	})
	assert.Equal(t, domain.StateCharging, res.State)
	assert.True(t, res.StateChanged)
}

func TestNewMissionOnCycleStart(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	res := frame(interp, store, missionFrame("clean", "run"))

	assert.Equal(t, domain.StateNew, res.State)
	assert.True(t, res.StateChanged)
	assert.True(t, res.ResetMap, "старт миссии должен запрашивать сброс карты")
	assert.True(t, interp.Flags().IsSet(domain.FlagNewMission))

	// подтверждение запуска фазой run
	res = frame(interp, store, missionFrame("clean", "run"))
	assert.Equal(t, domain.StateRunning, res.State)
	assert.False(t, res.ResetMap)
	assert.False(t, interp.Flags().IsSet(domain.FlagNewMission), "Running снимает new_mission")
}

func TestNewMissionHoldsUntilTimeout(t *testing.T) {
	interp, store, clock := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	require.Equal(t, domain.StateNew, interp.State())

	// фаза откатилась на charge, но рано делать выводы
	res := frame(interp, store, missionFrame("clean", "charge"))
	assert.Equal(t, domain.StateNew, res.State, "New держится до таймаута")

	clock.advance(21 * time.Second)
	res = frame(interp, store, missionFrame("clean", "charge"))
	assert.Equal(t, domain.StateCharging, res.State, "после таймаута верим фазе")
}

func TestSpuriousRunFrameIgnored(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	require.Equal(t, domain.StateCharging, interp.State())

	// одиночный кадр run без активной миссии
	res := frame(interp, store, missionFrame("none", "run"))
	assert.Equal(t, domain.StateCharging, res.State)
	assert.False(t, res.StateChanged)
}

func TestMidMissionRechargeSequence(t *testing.T) {
	interp, store, clock := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))
	require.Equal(t, domain.StateRunning, interp.State())

	// возврат на док посреди миссии
	res := frame(interp, store, missionFrame("clean", "hmMidMsn"))
	assert.Equal(t, domain.StateDocking, res.State)

	// фаза charge с остатком дозарядки
	res = frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{
			"cycle": "clean", "phase": "charge", "rechrgM": float64(25),
		},
	})
	assert.Equal(t, domain.StateRecharging, res.State)

	// возобновление после истечения окна подавления
	clock.advance(11 * time.Second)
	res = frame(interp, store, missionFrame("clean", "run"))
	assert.Equal(t, domain.StateRunning, res.State)
}

func TestMidMissionDockingFlagsAnomaly(t *testing.T) {
	interp, store, clock := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))

	// пустой мусоросборник: возврат посреди миссии означает разрядку
	frame(interp, store, missionFrame("clean", "hmMidMsn"))
	assert.True(t, interp.Flags().IsSet(domain.FlagBatteryLow),
		"возврат на док посреди миссии должен поднимать battery_low")

	// флаг удерживается, пока робот продолжает возвращаться
	for n := 0; n < 6; n++ {
		clock.advance(10 * time.Second)
		frame(interp, store, missionFrame("clean", "hmMidMsn"))
	}
	assert.True(t, interp.Flags().IsSet(domain.FlagBatteryLow))

	// дозарядка снимает флаг
	frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{
			"cycle": "clean", "phase": "charge", "rechrgM": float64(25),
		},
	})
	assert.False(t, interp.Flags().IsSet(domain.FlagBatteryLow))
}

func TestMidMissionDockingWithFullBin(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))

	res := frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{
			"cycle": "clean", "phase": "hmMidMsn",
		},
		"bin": map[string]interface{}{"full": true},
	})
	require.Equal(t, domain.StateDocking, res.State)
	assert.True(t, interp.Flags().IsSet(domain.FlagBinFull))
	assert.False(t, interp.Flags().IsSet(domain.FlagBatteryLow))
}

func TestRechargeWithFullBinPauses(t *testing.T) {
	interp, store, clock := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "hmMidMsn"))
	clock.advance(11 * time.Second)

	res := frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{
			"cycle": "clean", "phase": "charge", "rechrgM": float64(25),
		},
		"bin": map[string]interface{}{"full": true},
	})
	assert.Equal(t, domain.StatePaused, res.State, "полный мусоросборник блокирует дозарядку")
	assert.True(t, interp.Flags().IsSet(domain.FlagBinFull))
}

func TestMissionCompletion(t *testing.T) {
	interp, store, clock := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "hmPostMsn"))
	require.Equal(t, domain.StateEndMission, interp.State())

	// окно подавления после hmPostMsn истекает
	clock.advance(11 * time.Second)

	res := frame(interp, store, missionFrame("none", "charge"))
	assert.Equal(t, domain.StateCompleted, res.State)
	assert.True(t, res.StateChanged)

	// ложный кадр run сразу после завершения поглощается новым окном
	res = frame(interp, store, missionFrame("none", "run"))
	assert.Equal(t, domain.StateCompleted, res.State)
	assert.False(t, res.StateChanged)
}

func TestMissionCancelledWhenBinFull(t *testing.T) {
	interp, store, clock := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "hmUsrDock"))
	require.Equal(t, domain.StateUserDock, interp.State())

	clock.advance(11 * time.Second)

	res := frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{"cycle": "none", "phase": "charge"},
		"bin":                map[string]interface{}{"full": true},
	})
	assert.Equal(t, domain.StateCancelled, res.State)
	assert.True(t, interp.Flags().IsSet(domain.FlagCancelled))
}

func TestSpuriousCycleResetRolledBack(t *testing.T) {
	interp, store, clock := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))

	// возврат на док взводит окно подавления
	frame(interp, store, missionFrame("clean", "hmMidMsn"))
	previous := interp.State()

	// внутри окна приходит ложный сброс cycle
	res := frame(interp, store, missionFrame("none", "charge"))
	assert.Equal(t, previous, res.State, "ложный сброс не должен завершать миссию")
	assert.False(t, res.StateChanged)

	// после окна настоящий сброс завершает миссию
	clock.advance(11 * time.Second)
	res = frame(interp, store, missionFrame("none", "charge"))
	assert.Equal(t, domain.StateCompleted, res.State)
}

func TestStuckPhaseSetsFlag(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	frame(interp, store, missionFrame("clean", "run"))
	frame(interp, store, missionFrame("clean", "run"))

	res := frame(interp, store, missionFrame("clean", "stuck"))
	assert.Equal(t, domain.StateStuck, res.State)
	assert.True(t, interp.Flags().IsSet(domain.FlagStuck))

	// возобновление миссии снимает stuck
	res = frame(interp, store, missionFrame("clean", "run"))
	assert.Equal(t, domain.StateRunning, res.State)
	assert.False(t, interp.Flags().IsSet(domain.FlagStuck))
}

func TestUnknownPhaseReportedAsNone(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	frame(interp, store, missionFrame("none", "charge"))
	res := frame(interp, store, missionFrame("none", "warpdrive"))

	assert.Equal(t, domain.StateNone, res.State)
}

func TestTankLevelDrivesTankLowFlag(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	frame(interp, store, telemetry.Document{
		"cleanMissionStatus": map[string]interface{}{"cycle": "none", "phase": "charge"},
		"tankLvl":            float64(40),
	})
	assert.True(t, interp.Flags().IsSet(domain.FlagTankLow))

	frame(interp, store, telemetry.Document{"tankLvl": float64(100)})
	assert.False(t, interp.Flags().IsSet(domain.FlagTankLow))
}

func TestPoseExtractionSwapsAxes(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	frame(interp, store, telemetry.Document{
		"pose": map[string]interface{}{
			"theta": float64(90),
			"point": map[string]interface{}{"x": float64(10), "y": float64(-20)},
		},
	})

	pose, ok := interp.Pose()
	require.True(t, ok)
	assert.Equal(t, -20, pose.X, "ось X берется из point.y")
	assert.Equal(t, 10, pose.Y, "ось Y берется из point.x")
	assert.Equal(t, 90, pose.Theta)
}

func TestMissionMinutesFallbacks(t *testing.T) {
	interp, store, _ := newTestInterpreter()

	// прямое показание прошивки в приоритете
	frame(interp, store, telemetry.Document{"mssnM": float64(42)})
	assert.Equal(t, 42, interp.MissionMinutes())

	// иначе - от метки старта миссии
	interp2, store2, clock2 := newTestInterpreter()
	start := clock2.t.Add(-30 * time.Minute)
	frame(interp2, store2, telemetry.Document{"mssnStrtTm": float64(start.Unix())})
	assert.Equal(t, 30, interp2.MissionMinutes())
}
