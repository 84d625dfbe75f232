package mapping

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/iwtcode/roombaService/internal/domain"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
)

// Status - снимок состояния миссии для отрисовки. Собирается сессией
// вне критической секции приема, чтобы рендер не блокировал ингест.
type Status struct {
	State           domain.MissionState
	Flags           map[domain.Flag]bool
	BatteryPercent  int
	MissionMinutes  int
	RechargeMinutes int
	BinFull         bool
	ErrorText       string
	ExpireMinutes   int
	Sku             string
	IgnoreWindow    bool
	Timestamp       time.Time
}

// Renderer композитит слои карты в растровое изображение
type Renderer struct {
	logger *logging.Logger
	icons  *IconRegistry
}

func NewRenderer(icons *IconRegistry, logger *logging.Logger) *Renderer {
	return &Renderer{
		logger: logger.WithPrefix("RENDER"),
		icons:  icons,
	}
}

// Render собирает карту снизу вверх: фон, подложка, путь, стены,
// иконка робота, док, иконка аномалии, текстовый блок состояния.
func (r *Renderer) Render(pipe *Pipeline, status Status) image.Image {
	def := pipe.Definition()
	dc := gg.NewContext(def.ImgWidth(), def.ImgHeight())

	dc.SetColor(def.BgColor)
	dc.Clear()

	if def.Floorplan != nil {
		dc.DrawImage(def.Floorplan, 0, 0)
	}

	r.drawPath(dc, def, pipe.Path())

	if def.Walls != nil {
		dc.DrawImage(def.Walls, 0, 0)
	}

	icons := r.icons.Resolve(def.IconSet, status.Sku)
	devicePos, haveDevice := pipe.DevicePosition(status.State.Docked())

	if haveDevice {
		r.drawDevice(dc, def, icons, devicePos)
	}

	r.drawDock(dc, def, icons, pipe.OriginPosition())

	if haveDevice {
		if problem := r.problemIcon(icons, status.Flags); problem != nil {
			r.drawCentered(dc, def, problem, devicePos)
		}
	}

	r.drawStatusText(dc, def, status)

	return dc.Image()
}

func (r *Renderer) drawPath(dc *gg.Context, def *Definition, path []domain.ImagePosition) {
	if len(path) < 2 {
		return
	}

	dc.SetColor(def.PathColor)
	dc.SetLineWidth(def.PathWidth)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetLineCap(gg.LineCapRound)

	dc.MoveTo(float64(path[0].X), float64(path[0].Y))
	for _, p := range path[1:] {
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	dc.Stroke()
}

func (r *Renderer) drawDevice(dc *gg.Context, def *Definition, icons *IconSet, pos domain.ImagePosition) {
	x, y := clampToCanvas(def, pos, icons.Device)

	dc.Push()
	dc.RotateAbout(gg.Radians(float64(pos.Theta)), x, y)
	dc.DrawImageAnchored(icons.Device, int(x), int(y), 0.5, 0.5)
	dc.Pop()
}

func (r *Renderer) drawDock(dc *gg.Context, def *Definition, icons *IconSet, origin domain.ImagePosition) {
	x, y := clampToCanvas(def, origin, icons.Home)
	dc.DrawImageAnchored(icons.Home, int(x), int(y), 0.5, 0.5)
}

func (r *Renderer) drawCentered(dc *gg.Context, def *Definition, icon image.Image, pos domain.ImagePosition) {
	x, y := clampToCanvas(def, pos, icon)
	dc.DrawImageAnchored(icon, int(x), int(y), 0.5, 0.5)
}

// problemIcon выбирает одну иконку аномалии в фиксированном приоритете
func (r *Renderer) problemIcon(icons *IconSet, flags map[domain.Flag]bool) image.Image {
	switch {
	case flags[domain.FlagStuck]:
		return icons.Error
	case flags[domain.FlagCancelled]:
		return icons.Cancelled
	case flags[domain.FlagBinFull]:
		return icons.BinFull
	case flags[domain.FlagBatteryLow]:
		return icons.BatteryLow
	case flags[domain.FlagTankLow]:
		return icons.TankLow
	}
	return nil
}

func clampToCanvas(def *Definition, pos domain.ImagePosition, icon image.Image) (float64, float64) {
	half := float64(icon.Bounds().Dx()) / 2
	x := Clamp(float64(pos.X), half, float64(def.ImgWidth())-half)
	y := Clamp(float64(pos.Y), half, float64(def.ImgHeight())-half)
	return x, y
}

func (r *Renderer) drawStatusText(dc *gg.Context, def *Definition, status Status) {
	lines := statusLines(status)
	if len(lines) == 0 {
		return
	}

	const margin = 10
	dc.SetFontFace(basicfont.Face7x13)

	lineHeight := dc.FontHeight() * 1.4
	width := 0.0
	for _, line := range lines {
		if w, _ := dc.MeasureString(line); w > width {
			width = w
		}
	}

	dc.SetColor(def.TextBgColor)
	dc.DrawRectangle(0, 0, width+2*margin, lineHeight*float64(len(lines))+2*margin)
	dc.Fill()

	dc.SetColor(def.TextColor)
	for n, line := range lines {
		dc.DrawString(line, margin, margin+lineHeight*float64(n)+dc.FontHeight())
	}
}

// statusLines формирует текст статуса: состояние, атрибуты, метка времени
func statusLines(status Status) []string {
	var label, attributes string
	showTime := false

	switch status.State {
	case domain.StateCharging:
		label = "Charging"
		attributes = fmt.Sprintf("Battery: %d%%", status.BatteryPercent)
	case domain.StateRecharging:
		label = "Recharging"
		attributes = fmt.Sprintf("Time: %dm, Bat: %d%%", status.RechargeMinutes, status.BatteryPercent)
	case domain.StatePaused:
		label = "Paused"
		attributes = fmt.Sprintf("%dm, Bat: %d%%", status.MissionMinutes, status.BatteryPercent)
	case domain.StateEndMission:
		label = "Returning Home"
		showTime = true
	case domain.StateEmptying:
		label = "Emptying Bin"
	case domain.StateCompleted:
		label = "Completed"
		showTime = true
	case domain.StateRunning:
		label = "Running"
		attributes = fmt.Sprintf("Time %dm, Bat: %d%%", status.MissionMinutes, status.BatteryPercent)
	case domain.StateStopped:
		label = "Stopped"
		attributes = fmt.Sprintf("Time %dm, Bat: %d%%", status.MissionMinutes, status.BatteryPercent)
	case domain.StateNew:
		label = "Starting"
	case domain.StateStuck:
		label = "Stuck"
		expireText := "Job Cancelled"
		if status.ExpireMinutes > 0 {
			expireText = fmt.Sprintf("Job Cancel in %dm", status.ExpireMinutes)
		}
		attributes = fmt.Sprintf("%s %s", status.ErrorText, expireText)
		showTime = true
	case domain.StateCancelled:
		label = "Cancelled"
		showTime = true
	case domain.StateDocking:
		label = "Docking"
		if !status.IgnoreWindow {
			attributes = fmt.Sprintf("Bat: %d%%, Bin Full: %t", status.BatteryPercent, status.BinFull)
		}
	case domain.StateUserDock:
		label = "User Docking"
		showTime = true
	case domain.StateNone:
		return nil
	default:
		label = string(status.State)
	}

	lines := []string{strings.ToUpper(label)}
	if attributes != "" {
		lines = append(lines, attributes)
	}
	if showTime && !status.Timestamp.IsZero() {
		lines = append(lines, "Time: "+status.Timestamp.Format("Mon Jan 02 15:04:05"))
	}
	return lines
}

// EncodePNG кодирует изображение в PNG, при необходимости масштабируя
func EncodePNG(img image.Image, width, height int) ([]byte, error) {
	if width > 0 && height > 0 {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode map image: %w", err)
	}
	return buf.Bytes(), nil
}
