package telemetry

import "reflect"

type historyEntry struct {
	current  interface{}
	previous interface{}
}

// Tracker запоминает текущее и предыдущее значение именованных свойств.
// Первое наблюдение записывает значение в оба поля, поэтому previous
// никогда не пуст после того, как свойство было замечено.
type Tracker struct {
	entries map[string]*historyEntry
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]*historyEntry)}
}

// Update сдвигает историю свойства: current становится previous.
// Значения-map копируются, чтобы последующая мутация снапшота
// не искажала историю.
func (t *Tracker) Update(property string, value interface{}) interface{} {
	value = copyValue(value)

	// nil означает, что свойство еще не наблюдалось; первое
	// настоящее значение записывается в оба поля и не считается
	// изменением
	entry, ok := t.entries[property]
	if !ok || entry.current == nil {
		t.entries[property] = &historyEntry{current: value, previous: value}
		return value
	}

	entry.previous = entry.current
	entry.current = value
	return value
}

// Set записывает значение в оба поля истории, стирая факт изменения.
// Используется для отката ложных показаний.
func (t *Tracker) Set(property string, value interface{}) {
	value = copyValue(value)
	t.entries[property] = &historyEntry{current: value, previous: value}
}

// Current возвращает последнее наблюдаемое значение
func (t *Tracker) Current(property string) interface{} {
	if entry, ok := t.entries[property]; ok {
		return entry.current
	}
	return nil
}

// Previous возвращает предпоследнее наблюдаемое значение
func (t *Tracker) Previous(property string) interface{} {
	if entry, ok := t.entries[property]; ok {
		return entry.previous
	}
	return nil
}

// Observed сообщает, было ли свойство замечено хотя бы раз
func (t *Tracker) Observed(property string) bool {
	entry, ok := t.entries[property]
	return ok && entry.current != nil
}

// Changed сообщает, изменилось ли свойство при последнем слиянии
func (t *Tracker) Changed(property string) bool {
	entry, ok := t.entries[property]
	if !ok {
		return false
	}
	return !reflect.DeepEqual(entry.current, entry.previous)
}

func copyValue(value interface{}) interface{} {
	if m, ok := toDocument(value); ok {
		out := Document{}
		merge(out, m)
		return map[string]interface{}(out)
	}
	return value
}
