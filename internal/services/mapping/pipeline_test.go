package mapping

import (
	"testing"

	"github.com/iwtcode/roombaService/internal/domain"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Enabled: false}, "TEST")
}

func newTestPipeline(skip int) *Pipeline {
	return NewPipeline(NewDefinition("test", "Test"), skip, 500, testLogger())
}

func TestObserveSkipsFirstPoints(t *testing.T) {
	pipe := newTestPipeline(2)

	_, ok := pipe.Observe(domain.Pose{X: 10, Y: 10}, domain.StateRunning)
	assert.False(t, ok)
	_, ok = pipe.Observe(domain.Pose{X: 20, Y: 20}, domain.StateRunning)
	assert.False(t, ok)

	_, ok = pipe.Observe(domain.Pose{X: 30, Y: 30}, domain.StateRunning)
	assert.True(t, ok, "третья точка должна пройти фильтр пропуска")
	assert.Len(t, pipe.History(), 1)
}

func TestObserveDropsWhileDocked(t *testing.T) {
	pipe := newTestPipeline(0)

	_, ok := pipe.Observe(domain.Pose{X: 10, Y: 10}, domain.StateCharging)
	assert.False(t, ok, "на зарядке координаты заморожены")

	_, ok = pipe.Observe(domain.Pose{X: 10, Y: 10}, domain.StateEmptying)
	assert.False(t, ok)

	assert.Empty(t, pipe.History())
}

func TestObserveDropsZeroPoseWhenRunning(t *testing.T) {
	pipe := newTestPipeline(0)

	_, ok := pipe.Observe(domain.ZeroPose(0), domain.StateRunning)
	assert.False(t, ok, "нулевая точка в Running - известное ложное показание")

	// та же точка в другом состоянии проходит
	_, ok = pipe.Observe(domain.ZeroPose(0), domain.StateStuck)
	assert.True(t, ok)
}

func TestObserveDeduplicatesPosition(t *testing.T) {
	pipe := newTestPipeline(0)

	_, ok := pipe.Observe(domain.Pose{X: 10, Y: 10, Theta: 0}, domain.StateRunning)
	require.True(t, ok)

	// робот стоит на месте, меняется только угол
	_, ok = pipe.Observe(domain.Pose{X: 10, Y: 10, Theta: 90}, domain.StateRunning)
	assert.False(t, ok)
	assert.Len(t, pipe.History(), 1)
}

func TestObserveDropsTeleportArtifact(t *testing.T) {
	pipe := newTestPipeline(0)

	_, ok := pipe.Observe(domain.Pose{X: 0, Y: 10}, domain.StateRunning)
	require.True(t, ok)

	_, ok = pipe.Observe(domain.Pose{X: 0, Y: 600}, domain.StateRunning)
	assert.False(t, ok, "скачок дальше порога отбрасывается")

	_, ok = pipe.Observe(domain.Pose{X: 0, Y: 200}, domain.StateRunning)
	assert.True(t, ok)
	assert.Len(t, pipe.History(), 2)
}

func TestResetRearmsSkipCounter(t *testing.T) {
	pipe := newTestPipeline(1)

	pipe.Observe(domain.Pose{X: 10, Y: 10}, domain.StateRunning)
	_, ok := pipe.Observe(domain.Pose{X: 20, Y: 20}, domain.StateRunning)
	require.True(t, ok)

	pipe.Reset(nil)
	assert.Empty(t, pipe.History())
	assert.Empty(t, pipe.Path())

	_, ok = pipe.Observe(domain.Pose{X: 30, Y: 30}, domain.StateRunning)
	assert.False(t, ok, "после сброса счетчик пропуска взводится заново")
}

func TestTranslateStaysInCanvas(t *testing.T) {
	pipe := newTestPipeline(0)

	corners := []domain.Pose{
		{X: -1000, Y: -1000},
		{X: 1000, Y: 1000},
		{X: -5000, Y: 7000},
		{X: 0, Y: 0},
	}
	for _, pose := range corners {
		pos := pipe.Translate(pose)
		assert.GreaterOrEqual(t, pos.X, 0)
		assert.LessOrEqual(t, pos.X, DefaultImgWidth-1)
		assert.GreaterOrEqual(t, pos.Y, 0)
		assert.LessOrEqual(t, pos.Y, DefaultImgHeight-1)
	}
}

func TestTranslateCenterAndTheta(t *testing.T) {
	pipe := newTestPipeline(0)

	pos := pipe.Translate(domain.Pose{X: 0, Y: 0, Theta: 0})
	assert.Equal(t, 499, pos.X)
	assert.Equal(t, 499, pos.Y)
	assert.Equal(t, 180, pos.Theta, "нулевой курс робота смотрит от дока")

	pos = pipe.Translate(domain.Pose{X: 0, Y: 0, Theta: 180})
	assert.Equal(t, 0, pos.Theta)

	pos = pipe.Translate(domain.Pose{X: 0, Y: 0, Theta: -90})
	assert.Equal(t, 90, pos.Theta)
}

func TestDevicePosition(t *testing.T) {
	pipe := newTestPipeline(0)

	// без точек позиция неизвестна
	_, ok := pipe.DevicePosition(false)
	assert.False(t, ok)

	// на доке позиция принудительно в начале координат
	pos, ok := pipe.DevicePosition(true)
	require.True(t, ok)
	assert.Equal(t, pipe.OriginPosition(), pos)

	accepted, ok := pipe.Observe(domain.Pose{X: 100, Y: 50}, domain.StateRunning)
	require.True(t, ok)
	pos, ok = pipe.DevicePosition(false)
	require.True(t, ok)
	assert.Equal(t, accepted, pos)
}

func TestVisitedBoundingBox(t *testing.T) {
	pipe := newTestPipeline(0)

	assert.Equal(t, domain.Point{}, pipe.MinCoords())
	assert.Equal(t, domain.Point{}, pipe.MaxCoords())

	pipe.Observe(domain.Pose{X: 10, Y: -20}, domain.StateRunning)
	pipe.Observe(domain.Pose{X: -30, Y: 40}, domain.StateRunning)
	pipe.Observe(domain.Pose{X: 5, Y: 5}, domain.StateRunning)

	assert.Equal(t, domain.Point{X: -30, Y: -20}, pipe.MinCoords())
	assert.Equal(t, domain.Point{X: 10, Y: 40}, pipe.MaxCoords())
}
