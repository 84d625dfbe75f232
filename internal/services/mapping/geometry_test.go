package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(99, 0, 10))
}

func TestInterpolate(t *testing.T) {
	assert.Equal(t, 50.0, Interpolate(5, 0, 10, 0, 100))
	assert.Equal(t, 150.0, Interpolate(5, 0, 10, 100, 200))

	// значение вне in-диапазона прижимается к границе
	assert.Equal(t, 100.0, Interpolate(20, 0, 10, 0, 100))
	assert.Equal(t, 0.0, Interpolate(-20, 0, 10, 0, 100))
}

func TestInterpolateInvertedRanges(t *testing.T) {
	// инвертированный входной диапазон: in0 соответствует out0
	assert.Equal(t, 0.0, Interpolate(10, 10, 0, 0, 100))
	assert.Equal(t, 100.0, Interpolate(0, 10, 0, 0, 100))
	assert.Equal(t, 80.0, Interpolate(2, 10, 0, 0, 100))

	// инвертированный выходной диапазон
	assert.Equal(t, 100.0, Interpolate(0, 0, 10, 100, 0))
	assert.Equal(t, 0.0, Interpolate(10, 0, 10, 100, 0))
	assert.Equal(t, 80.0, Interpolate(2, 0, 10, 100, 0))
}

func TestRotateCounterClockwise(t *testing.T) {
	x, y := Rotate(1, 0, 90, false, false)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)

	x, y = Rotate(1, 0, 180, false, false)
	assert.InDelta(t, -1, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	// нулевой угол ничего не меняет
	x, y = Rotate(3, -4, 0, false, false)
	assert.InDelta(t, 3, x, 1e-9)
	assert.InDelta(t, -4, y, 1e-9)
}

func TestRotateAxisInversion(t *testing.T) {
	// инверсия отражает повернутую точку относительно исходной
	x, y := Rotate(1, 0, 90, true, false)
	assert.InDelta(t, 2, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)

	x, y = Rotate(1, 0, 90, false, true)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, -1, y, 1e-9)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5, Distance(0, 0, 3, 4), 1e-9)
	assert.InDelta(t, 0, Distance(7, 7, 7, 7), 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeAngle(360))
	assert.Equal(t, 90.0, NormalizeAngle(450))
	assert.Equal(t, 270.0, NormalizeAngle(-90))
	assert.Equal(t, 0.0, NormalizeAngle(0))
}
