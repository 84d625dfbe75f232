package telemetry

import "time"

type timerEntry struct {
	value  bool
	expiry time.Time
}

// TimerSet - именованные булевы таймеры с автоистечением.
// Истечение проверяется лениво при чтении, фоновой очистки нет.
type TimerSet struct {
	timers map[string]*timerEntry
	now    func() time.Time
}

func NewTimerSet() *TimerSet {
	return NewTimerSetWithClock(time.Now)
}

// NewTimerSetWithClock создает набор таймеров с заданными часами
func NewTimerSetWithClock(now func() time.Time) *TimerSet {
	return &TimerSet{
		timers: make(map[string]*timerEntry),
		now:    now,
	}
}

// Arm взводит таймер на заданную длительность
func (t *TimerSet) Arm(name string, d time.Duration) {
	t.timers[name] = &timerEntry{
		value:  true,
		expiry: t.now().Add(d),
	}
}

// IsSet сообщает, активен ли таймер в данный момент
func (t *TimerSet) IsSet(name string) bool {
	entry, ok := t.timers[name]
	if !ok {
		return false
	}
	return entry.value && t.Remaining(name) > 0
}

// Remaining возвращает оставшееся время таймера, минимум ноль
func (t *TimerSet) Remaining(name string) time.Duration {
	entry, ok := t.timers[name]
	if !ok {
		return 0
	}
	remaining := entry.expiry.Sub(t.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Cancel сбрасывает таймер
func (t *TimerSet) Cancel(name string) {
	delete(t.timers, name)
}
