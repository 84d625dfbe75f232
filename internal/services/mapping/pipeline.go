package mapping

import (
	"github.com/iwtcode/roombaService/internal/domain"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
)

// Pipeline фильтрует сырые точки позиции и накапливает историю пути
// в координатах робота и в пиксельных координатах карты.
type Pipeline struct {
	logger *logging.Logger

	def           *Definition
	pointsToSkip  int
	pointsSkipped int
	maxDistance   float64

	history    []domain.Pose
	translated []domain.ImagePosition
}

func NewPipeline(def *Definition, skipPoints, maxDistance int, logger *logging.Logger) *Pipeline {
	if def == nil {
		def = NewDefinition("default", "Default")
	}
	if skipPoints < 0 {
		skipPoints = DefaultSkipPoints
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return &Pipeline{
		logger:       logger.WithPrefix("PIPELINE"),
		def:          def.Normalize(),
		pointsToSkip: skipPoints,
		maxDistance:  float64(maxDistance),
	}
}

// Definition возвращает активную карту
func (p *Pipeline) Definition() *Definition {
	return p.def
}

// Reset очищает историю пути и перевзводит счетчик пропуска точек.
// Вызывается ровно при старте новой миссии.
func (p *Pipeline) Reset(def *Definition) {
	if def != nil {
		p.def = def.Normalize()
	}
	p.history = nil
	p.translated = nil
	p.pointsSkipped = 0
}

// Observe пропускает одну точку через фильтры; каждый фильтр
// отбрасывает точку целиком, без очередей. Возвращает пиксельную
// позицию и признак принятия точки.
func (p *Pipeline) Observe(pose domain.Pose, state domain.MissionState) (domain.ImagePosition, bool) {
	// на доке робот сообщает замороженные координаты
	if state == domain.StateCharging || state == domain.StateEmptying {
		return domain.ImagePosition{}, false
	}

	// известное ложное показание после восстановления из ошибки
	if state == domain.StateRunning && pose == domain.ZeroPose(0) {
		p.logger.Warn("Received 0,0,0 pose when running - ignoring")
		return domain.ImagePosition{}, false
	}

	// первые точки после снятия с дока эмпирически недостоверны
	if p.pointsSkipped < p.pointsToSkip {
		p.pointsSkipped++
		return domain.ImagePosition{}, false
	}

	if len(p.history) > 0 {
		last := p.history[len(p.history)-1]

		// робот стоит на месте
		if last.X == pose.X && last.Y == pose.Y {
			return domain.ImagePosition{}, false
		}

		// телепорт-артефакт
		if Distance(float64(last.X), float64(last.Y), float64(pose.X), float64(pose.Y)) > p.maxDistance {
			return domain.ImagePosition{}, false
		}
	}

	translated := p.Translate(pose)
	p.history = append(p.history, pose)
	p.translated = append(p.translated, translated)
	return translated, true
}

// Translate переводит позицию робота в пиксельные координаты карты
func (p *Pipeline) Translate(pose domain.Pose) domain.ImagePosition {
	x := float64(pose.X)
	y := float64(pose.Y)

	// снимаем собственный поворот карты; инверсия осей определяется
	// направлением диапазонов координат
	x, y = Rotate(x, y, -p.def.Angle,
		p.def.CoordsStart.X > p.def.CoordsEnd.X,
		p.def.CoordsStart.Y < p.def.CoordsEnd.Y,
	)

	imgX := Interpolate(x,
		float64(p.def.CoordsStart.X), float64(p.def.CoordsEnd.X),
		0, float64(p.def.ImgWidth()-1),
	)
	imgY := Interpolate(y,
		float64(p.def.CoordsStart.Y), float64(p.def.CoordsEnd.Y),
		0, float64(p.def.ImgHeight()-1),
	)

	imgX = Clamp(imgX, 0, float64(p.def.ImgWidth()-1))
	imgY = Clamp(imgY, 0, float64(p.def.ImgHeight()-1))

	// 0 градусов у робота - от дока, у растра - вверх,
	// поэтому поворот компенсируется со сдвигом на 180
	theta := NormalizeAngle(p.def.Angle + float64(pose.Theta) + 180)

	return domain.ImagePosition{X: int(imgX), Y: int(imgY), Theta: int(theta)}
}

// DevicePosition возвращает последнюю пиксельную позицию робота.
// На доке позиция принудительно снимается в начало координат.
func (p *Pipeline) DevicePosition(docked bool) (domain.ImagePosition, bool) {
	if docked {
		return p.OriginPosition(), true
	}
	if len(p.translated) == 0 {
		return domain.ImagePosition{}, false
	}
	return p.translated[len(p.translated)-1], true
}

// OriginPosition возвращает пиксельную позицию дока
func (p *Pipeline) OriginPosition() domain.ImagePosition {
	return p.Translate(domain.ZeroPose(180))
}

// Path возвращает накопленный путь в пиксельных координатах
func (p *Pipeline) Path() []domain.ImagePosition {
	return p.translated
}

// History возвращает накопленный путь в координатах робота
func (p *Pipeline) History() []domain.Pose {
	return p.history
}

// MinCoords возвращает минимальные посещенные координаты
func (p *Pipeline) MinCoords() domain.Point {
	if len(p.history) == 0 {
		return domain.Point{}
	}
	min := domain.Point{X: p.history[0].X, Y: p.history[0].Y}
	for _, pose := range p.history[1:] {
		if pose.X < min.X {
			min.X = pose.X
		}
		if pose.Y < min.Y {
			min.Y = pose.Y
		}
	}
	return min
}

// MaxCoords возвращает максимальные посещенные координаты
func (p *Pipeline) MaxCoords() domain.Point {
	if len(p.history) == 0 {
		return domain.Point{}
	}
	max := domain.Point{X: p.history[0].X, Y: p.history[0].Y}
	for _, pose := range p.history[1:] {
		if pose.X > max.X {
			max.X = pose.X
		}
		if pose.Y > max.Y {
			max.Y = pose.Y
		}
	}
	return max
}
