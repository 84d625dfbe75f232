package mapping

import "math"

// Clamp ограничивает значение диапазоном [min, max]
func Clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(value, max))
}

// Interpolate линейно отображает value из in-диапазона в out-диапазон
// с ограничением по границам. Инвертированные диапазоны допустимы
// с любой стороны.
func Interpolate(value, in0, in1, out0, out1 float64) float64 {
	invert := false
	if in0 > in1 {
		in0, in1 = in1, in0
		invert = !invert
	}
	if out0 > out1 {
		out0, out1 = out1, out0
		invert = !invert
	}

	value = Clamp(value, in0, in1)

	out := out0 + (value-in0)/(in1-in0)*(out1-out0)
	if invert {
		out = out1 - (out - out0)
	}
	return out
}

// Rotate поворачивает точку вокруг начала координат на angle градусов
// против часовой стрелки. Флаги invert отражают результат относительно
// исходной точки по соответствующей оси (эмпирическая конвенция знаков
// координатной системы робота).
func Rotate(x, y, angle float64, invertX, invertY bool) (float64, float64) {
	rad := angle * math.Pi / 180
	xx := x*math.Cos(rad) - y*math.Sin(rad)
	yy := x*math.Sin(rad) + y*math.Cos(rad)

	if invertX {
		xx = x - (xx - x)
	}
	if invertY {
		yy = y - (yy - y)
	}
	return xx, yy
}

// Distance возвращает евклидово расстояние между двумя точками
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// NormalizeAngle приводит угол к диапазону [0, 360)
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}
