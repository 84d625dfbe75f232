package telemetry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document - вложенный документ телеметрии
type Document map[string]interface{}

// Store хранит объединенное состояние телеметрии робота.
// Документ принадлежит сессии устройства и мутируется только
// структурным слиянием входящих фрагментов.
type Store struct {
	state Document
}

func NewStore() *Store {
	return &Store{state: Document{}}
}

// Merge рекурсивно сливает фрагмент в накопленное состояние:
// вложенные map сливаются по ключам, остальные значения замещаются.
func (s *Store) Merge(fragment Document) {
	merge(s.state, fragment)
}

func merge(dst Document, src Document) {
	for k, v := range src {
		existing, ok := dst[k].(map[string]interface{})
		incoming, isMap := toDocument(v)
		if ok && isMap {
			merge(existing, incoming)
			continue
		}
		if isMap {
			// копируем, чтобы не делить память с фрагментом
			fresh := Document{}
			merge(fresh, incoming)
			dst[k] = map[string]interface{}(fresh)
			continue
		}
		dst[k] = v
	}
}

func toDocument(v interface{}) (Document, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return Document(m), true
	case Document:
		return m, true
	}
	return nil, false
}

// Lookup ищет значение по уникальному ключу на любой глубине документа.
// Ветка "cap" пропускается: в ней лежат флаги возможностей с теми же
// именами, что и у свойств телеметрии.
func (s *Store) Lookup(key string) (interface{}, bool) {
	return lookup(s.state, key)
}

func lookup(doc map[string]interface{}, key string) (interface{}, bool) {
	for k, v := range doc {
		if k == key {
			return v, true
		}
	}
	for k, v := range doc {
		if k == "cap" {
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			if val, found := lookup(nested, key); found {
				return val, true
			}
		}
	}
	return nil, false
}

// Capability возвращает значение из ветки возможностей робота
func (s *Store) Capability(key string) (interface{}, bool) {
	capValue, found := s.Lookup("cap")
	if !found {
		return nil, false
	}
	capDoc, ok := capValue.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return lookup(capDoc, key)
}

// GetString возвращает строковое свойство
func (s *Store) GetString(key string) (string, bool) {
	v, found := s.Lookup(key)
	if !found {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetNumber возвращает числовое свойство
func (s *Store) GetNumber(key string) (float64, bool) {
	v, found := s.Lookup(key)
	if !found {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// GetInt возвращает целочисленное свойство
func (s *Store) GetInt(key string) (int, bool) {
	f, ok := s.GetNumber(key)
	return int(f), ok
}

// GetBool возвращает булево свойство
func (s *Store) GetBool(key string) (bool, bool) {
	v, found := s.Lookup(key)
	if !found {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetNested возвращает вложенный документ
func (s *Store) GetNested(key string) (Document, bool) {
	v, found := s.Lookup(key)
	if !found {
		return nil, false
	}
	nested, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return Document(nested), true
}

// Snapshot возвращает глубокую копию накопленного состояния
func (s *Store) Snapshot() Document {
	out := Document{}
	merge(out, s.state)
	return out
}

// DecodePayload разбирает JSON-фрагмент телеметрии. Прошивка робота
// иногда отдает голые токены nan/inf, которые не являются валидным JSON.
func DecodePayload(payload []byte) (Document, error) {
	sanitized := strings.NewReplacer(
		":nan", ":null",
		":inf", ":null",
		":-inf", ":null",
	).Replace(string(payload))

	var doc Document
	if err := json.Unmarshal([]byte(sanitized), &doc); err != nil {
		return nil, fmt.Errorf("malformed telemetry payload: %w", err)
	}
	return doc, nil
}
