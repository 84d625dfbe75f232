package mapping

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/iwtcode/roombaService/internal/middleware/logging"
)

const (
	DefaultIconSize = 50
	HomeIconSize    = 32

	// Семантические роли иконок
	IconDevice     = "device"
	IconError      = "error"
	IconCancelled  = "cancelled"
	IconBatteryLow = "battery-low"
	IconCharging   = "charging"
	IconBinFull    = "bin-full"
	IconTankLow    = "tank-low"
	IconHome       = "home"
)

// IconSet - набор растровых иконок для отрисовки карты
type IconSet struct {
	Device     image.Image
	Error      image.Image
	Cancelled  image.Image
	BatteryLow image.Image
	Charging   image.Image
	BinFull    image.Image
	TankLow    image.Image
	Home       image.Image
}

// WithIcon заменяет иконку роли, неизвестные роли игнорируются
func (s *IconSet) WithIcon(role string, icon image.Image) *IconSet {
	switch role {
	case IconDevice:
		s.Device = icon
	case IconError:
		s.Error = icon
	case IconCancelled:
		s.Cancelled = icon
	case IconBatteryLow:
		s.BatteryLow = icon
	case IconCharging:
		s.Charging = icon
	case IconBinFull:
		s.BinFull = icon
	case IconTankLow:
		s.TankLow = icon
	case IconHome:
		s.Home = icon
	}
	return s
}

// DefaultIconSet рисует полный набор иконок процедурно,
// чтобы карта работала без единого файла на диске
func DefaultIconSet() *IconSet {
	return &IconSet{
		Device:     drawDeviceIcon(DefaultIconSize, false),
		Error:      drawDeviceIcon(DefaultIconSize, true),
		Cancelled:  drawBadgeIcon(DefaultIconSize, color.RGBA{200, 0, 0, 255}, "X"),
		BatteryLow: drawBadgeIcon(DefaultIconSize, color.RGBA{230, 140, 0, 255}, "B"),
		Charging:   drawBadgeIcon(DefaultIconSize, color.RGBA{230, 200, 0, 255}, "C"),
		BinFull:    drawBadgeIcon(DefaultIconSize, color.RGBA{110, 110, 110, 255}, "F"),
		TankLow:    drawBadgeIcon(DefaultIconSize, color.RGBA{0, 90, 200, 255}, "L"),
		Home:       drawHomeIcon(HomeIconSize),
	}
}

// drawDeviceIcon - зеленый круг с красной меткой направления сверху;
// вариант с ошибкой добавляет восклицательный треугольник
func drawDeviceIcon(size int, withError bool) image.Image {
	dc := gg.NewContext(size, size)
	c := float64(size) / 2

	dc.DrawCircle(c, c, c-5)
	dc.SetColor(color.RGBA{0, 150, 0, 255})
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()

	// метка направления: иконка смотрит вверх
	dc.DrawCircle(c, 6, 4)
	dc.SetColor(color.RGBA{220, 0, 0, 255})
	dc.Fill()

	if withError {
		dc.MoveTo(c, c-10)
		dc.LineTo(c-9, c+8)
		dc.LineTo(c+9, c+8)
		dc.ClosePath()
		dc.SetColor(color.RGBA{220, 0, 0, 255})
		dc.Fill()
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(color.White)
		dc.DrawStringAnchored("!", c, c+2, 0.5, 0.5)
	}

	return dc.Image()
}

// drawBadgeIcon - цветной квадрат с буквой роли
func drawBadgeIcon(size int, fill color.RGBA, letter string) image.Image {
	dc := gg.NewContext(size, size)
	pad := float64(size) / 5

	dc.DrawRectangle(pad, pad, float64(size)-2*pad, float64(size)-2*pad)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(letter, float64(size)/2, float64(size)/2, 0.5, 0.5)

	return dc.Image()
}

func drawHomeIcon(size int) image.Image {
	dc := gg.NewContext(size, size)

	dc.DrawRectangle(1, 1, float64(size)-2, float64(size)-2)
	dc.SetColor(color.RGBA{180, 0, 0, 255})
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(color.White)
	dc.DrawStringAnchored("D", float64(size)/2, float64(size)/2, 0.5, 0.5)

	return dc.Image()
}

// IconRegistry хранит именованные наборы иконок. Набор "default"
// существует всегда и полон по ролям.
type IconRegistry struct {
	logger *logging.Logger
	sets   map[string]*IconSet
}

func NewIconRegistry(logger *logging.Logger) *IconRegistry {
	return &IconRegistry{
		logger: logger.WithPrefix("ICONS"),
		sets:   map[string]*IconSet{"default": DefaultIconSet()},
	}
}

// Register добавляет или замещает именованный набор
func (r *IconRegistry) Register(name string, set *IconSet) {
	if name == "" {
		r.logger.Error("Icon sets must have names")
		return
	}
	r.sets[name] = set
}

// Resolve выбирает набор иконок: указанный картой, затем набор
// семейства устройства (первая буква sku), затем default
func (r *IconRegistry) Resolve(mapSet, sku string) *IconSet {
	resolved := r.sets["default"]

	if sku != "" {
		if series, ok := r.sets[sku[:1]]; ok {
			resolved = series
		}
	}

	if mapSet != "" {
		if set, ok := r.sets[mapSet]; ok {
			return set
		}
		r.logger.Warn("Could not resolve icon set for map, falling back", "icon_set", mapSet)
	}

	return resolved
}
