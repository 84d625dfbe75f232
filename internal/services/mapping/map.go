package mapping

import (
	"image"
	"image/color"

	"github.com/iwtcode/roombaService/internal/domain"
)

const (
	DefaultImgWidth    = 1000
	DefaultImgHeight   = 1000
	DefaultPathWidth   = 2
	DefaultSkipPoints  = 3
	DefaultMaxDistance = 500
)

var (
	DefaultBgColor     = color.RGBA{0, 0, 0, 0}
	DefaultPathColor   = color.RGBA{0, 0, 180, 127}
	DefaultTextColor   = color.RGBA{255, 255, 255, 255}
	DefaultTextBgColor = color.RGBA{0, 0, 0, 180}
)

// Definition описывает карту одной миссии: прямоугольник координат
// робота, проецируемый на растровый холст, поворот, слои подложки
// и стиль отрисовки. После конструирования не мутируется.
type Definition struct {
	ID   string
	Name string

	// Прямоугольник в координатах робота, отображаемый на холст
	CoordsStart domain.Point
	CoordsEnd   domain.Point

	// Поворот карты в градусах
	Angle float64

	// Подложка и стены; decode - забота вызывающей стороны
	Floorplan image.Image
	Walls     image.Image

	// Имя набора иконок, пустое - автовыбор
	IconSet string

	BgColor     color.RGBA
	PathColor   color.RGBA
	PathWidth   float64
	TextColor   color.RGBA
	TextBgColor color.RGBA
}

// NewDefinition создает карту с дефолтными стилем и границами
func NewDefinition(id, name string) *Definition {
	return &Definition{
		ID:          id,
		Name:        name,
		CoordsStart: domain.Point{X: -1000, Y: -1000},
		CoordsEnd:   domain.Point{X: 1000, Y: 1000},
		BgColor:     DefaultBgColor,
		PathColor:   DefaultPathColor,
		PathWidth:   DefaultPathWidth,
		TextColor:   DefaultTextColor,
		TextBgColor: DefaultTextBgColor,
	}
}

// Normalize подтягивает невалидные поля к дефолтам
func (d *Definition) Normalize() *Definition {
	d.Angle = NormalizeAngle(d.Angle)
	if d.PathWidth <= 0 {
		d.PathWidth = DefaultPathWidth
	}
	if d.CoordsStart == d.CoordsEnd {
		d.CoordsStart = domain.Point{X: -1000, Y: -1000}
		d.CoordsEnd = domain.Point{X: 1000, Y: 1000}
	}
	return d
}

// ImgWidth возвращает ширину холста: по подложке, либо дефолт
func (d *Definition) ImgWidth() int {
	if d.Floorplan != nil {
		return d.Floorplan.Bounds().Dx()
	}
	return DefaultImgWidth
}

// ImgHeight возвращает высоту холста: по подложке, либо дефолт
func (d *Definition) ImgHeight() int {
	if d.Floorplan != nil {
		return d.Floorplan.Bounds().Dy()
	}
	return DefaultImgHeight
}
