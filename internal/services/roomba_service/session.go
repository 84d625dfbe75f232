package roomba_service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/domain"
	"github.com/iwtcode/roombaService/internal/domain/entities"
	"github.com/iwtcode/roombaService/internal/domain/models"
	"github.com/iwtcode/roombaService/internal/interfaces"
	"github.com/iwtcode/roombaService/internal/middleware/logging"
	"github.com/iwtcode/roombaService/internal/services/mapping"
	"github.com/iwtcode/roombaService/internal/services/mission"
	"github.com/iwtcode/roombaService/internal/services/telemetry"
)

// Session держит полный конвейер обработки телеметрии одного робота:
// слияние фрагментов, интерпретация состояния, трансляция позиций и
// рендер карты. Все mutable-поля защищены одним мьютексом, порядок
// прихода фрагментов сохраняется.
type Session struct {
	mu sync.Mutex

	cfg      *config.AppConfig
	logger   *logging.Logger
	producer interfaces.KafkaService
	repo     interfaces.MissionRepository

	store       *telemetry.Store
	history     *telemetry.Tracker
	flags       *telemetry.FlagSet
	timers      *telemetry.TimerSet
	interpreter *mission.Interpreter
	pipeline    *mapping.Pipeline
	renderer    *mapping.Renderer
	icons       *mapping.IconRegistry

	missionStartedAt time.Time
}

func NewSession(cfg *config.AppConfig, repo interfaces.MissionRepository, producer interfaces.KafkaService, logger *logging.Logger) *Session {
	store := telemetry.NewStore()
	history := telemetry.NewTracker()
	flags := telemetry.NewFlagSet()
	timers := telemetry.NewTimerSet()
	icons := mapping.NewIconRegistry(logger)

	def := mapping.NewDefinition("default", cfg.Robot.Name)

	return &Session{
		cfg:         cfg,
		logger:      logger.WithPrefix("SESSION"),
		producer:    producer,
		repo:        repo,
		store:       store,
		history:     history,
		flags:       flags,
		timers:      timers,
		interpreter: mission.NewInterpreter(store, history, flags, timers, logger),
		pipeline:    mapping.NewPipeline(def, cfg.Map.SkipPoints, cfg.Map.MaxDistance, logger),
		renderer:    mapping.NewRenderer(icons, logger),
		icons:       icons,
	}
}

// HandleMessage обрабатывает один фрагмент телеметрии от робота
func (s *Session) HandleMessage(topic string, payload []byte) {
	fragment, err := telemetry.DecodePayload(payload)
	if err != nil {
		s.logger.Warn("Dropping malformed telemetry frame", "topic", topic, "error", err)
		return
	}
	if fragment == nil {
		return
	}

	s.mu.Lock()

	s.store.Merge(fragment)
	result := s.interpreter.Update()

	if result.ResetMap {
		s.pipeline.Reset(s.pipeline.Definition())
		s.missionStartedAt = time.Now()
	}

	if pose, ok := s.interpreter.Pose(); ok && result.State != domain.StateNone {
		s.pipeline.Observe(pose, result.State)
	}

	var event *models.StateEvent
	var record *entities.MissionRecord
	if result.StateChanged {
		event = s.buildStateEventLocked(result.State)
		if result.State == domain.StateCompleted || result.State == domain.StateCancelled {
			record = s.buildMissionRecordLocked(result.State)
		}
	}

	s.mu.Unlock()

	// Побочные эффекты выполняются вне критической секции,
	// чтобы запись в Kafka и БД не тормозила прием телеметрии
	if event != nil {
		s.publishStateEvent(event)
	}
	if record != nil {
		if err := s.repo.Save(record); err != nil {
			s.logger.Error("Failed to persist mission record", "error", err)
		} else {
			s.logger.Info("Mission record saved",
				"cycle", record.Cycle, "final_state", record.FinalState,
				"runtime_min", record.RuntimeMinutes, "samples", record.Samples)
		}
	}
}

func (s *Session) buildStateEventLocked(state domain.MissionState) *models.StateEvent {
	flags := make([]string, 0)
	for _, f := range s.flags.Active() {
		flags = append(flags, string(f))
	}
	previous := ""
	if prev, ok := s.history.Previous("phase").(string); ok {
		if mapped, found := domain.StateForPhase(prev); found {
			previous = string(mapped)
		}
	}
	return &models.StateEvent{
		Blid:           s.cfg.Robot.Blid,
		Name:           s.cfg.Robot.Name,
		State:          string(state),
		PreviousState:  previous,
		Flags:          flags,
		Phase:          s.interpreter.Phase(),
		Cycle:          s.interpreter.Cycle(),
		BatteryPercent: s.interpreter.BatteryPercent(),
		Timestamp:      time.Now().Unix(),
	}
}

func (s *Session) buildMissionRecordLocked(state domain.MissionState) *entities.MissionRecord {
	cycle := s.interpreter.Cycle()
	if cycle == domain.CycleNone {
		// к моменту завершения cycle уже сброшен, берем предыдущее значение
		if prev, ok := s.history.Previous("cycle").(string); ok && prev != domain.CycleNone {
			cycle = prev
		}
	}
	started := s.missionStartedAt
	if started.IsZero() {
		started = time.Now()
	}
	minC := s.pipeline.MinCoords()
	maxC := s.pipeline.MaxCoords()
	return &entities.MissionRecord{
		Blid:           s.cfg.Robot.Blid,
		Cycle:          cycle,
		FinalState:     string(state),
		StartedAt:      started,
		EndedAt:        time.Now(),
		RuntimeMinutes: s.interpreter.MissionMinutes(),
		MinX:           minC.X,
		MinY:           minC.Y,
		MaxX:           maxC.X,
		MaxY:           maxC.Y,
		Samples:        len(s.pipeline.Path()),
	}
}

func (s *Session) publishStateEvent(event *models.StateEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal state event", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.producer.Produce(ctx, []byte(event.Blid), value); err != nil {
		s.logger.Error("Failed to publish state event", "error", err)
	}
}

// Status возвращает снимок состояния робота для API
func (s *Session) Status(connected bool) models.RobotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags := make([]string, 0)
	for _, f := range s.flags.Active() {
		flags = append(flags, string(f))
	}

	status := models.RobotStatus{
		Name:           s.cfg.Robot.Name,
		Blid:           s.cfg.Robot.Blid,
		Connected:      connected,
		State:          string(s.interpreter.State()),
		Flags:          flags,
		Phase:          s.interpreter.Phase(),
		Cycle:          s.interpreter.Cycle(),
		BatteryPercent: s.interpreter.BatteryPercent(),
		MissionMinutes: s.interpreter.MissionMinutes(),
		BinFull:        s.interpreter.BinFull(),
		MinCoords:      s.pipeline.MinCoords(),
		MaxCoords:      s.pipeline.MaxCoords(),
	}
	if s.interpreter.ErrorNumber() != 0 {
		status.ErrorMsg = s.interpreter.ErrorText()
	}
	if s.interpreter.NotReadyNumber() != 0 {
		status.NotReadyMsg = s.interpreter.NotReadyText()
	}
	if pose, ok := s.interpreter.Pose(); ok {
		status.Pose = &pose
	}
	return status
}

// RenderMap собирает текущую карту миссии и кодирует ее в PNG
func (s *Session) RenderMap(width, height int) ([]byte, error) {
	s.mu.Lock()
	rechargeMin, _ := s.interpreter.RechargeMinutes()
	status := mapping.Status{
		State:           s.interpreter.State(),
		Flags:           s.flagsMapLocked(),
		BatteryPercent:  s.interpreter.BatteryPercent(),
		MissionMinutes:  s.interpreter.MissionMinutes(),
		RechargeMinutes: rechargeMin,
		BinFull:         s.interpreter.BinFull(),
		ErrorText:       s.interpreter.ErrorText(),
		ExpireMinutes:   s.interpreter.ExpireMinutes(),
		Sku:             s.interpreter.Sku(),
		IgnoreWindow:    s.timers.IsSet(domain.TimerIgnoreRun),
		Timestamp:       time.Now(),
	}
	img := s.renderer.Render(s.pipeline, status)
	s.mu.Unlock()

	return mapping.EncodePNG(img, width, height)
}

func (s *Session) flagsMapLocked() map[domain.Flag]bool {
	out := make(map[domain.Flag]bool)
	for _, f := range s.flags.Active() {
		out[f] = true
	}
	return out
}

// SetMapDefinition заменяет определение карты и сбрасывает конвейер позиций
func (s *Session) SetMapDefinition(def *mapping.Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline.Reset(def.Normalize())
}

// RegisterIconSet добавляет именованный набор иконок
func (s *Session) RegisterIconSet(name string, set *mapping.IconSet) {
	s.icons.Register(name, set)
}
