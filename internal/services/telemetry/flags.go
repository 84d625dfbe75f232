package telemetry

import "github.com/iwtcode/roombaService/internal/domain"

// FlagSet - набор именованных флагов аномалий текущей миссии
type FlagSet struct {
	flags map[domain.Flag]bool
}

func NewFlagSet() *FlagSet {
	return &FlagSet{flags: make(map[domain.Flag]bool)}
}

// Set взводит флаги
func (f *FlagSet) Set(flags ...domain.Flag) {
	for _, flag := range flags {
		f.flags[flag] = true
	}
}

// Clear снимает флаги
func (f *FlagSet) Clear(flags ...domain.Flag) {
	for _, flag := range flags {
		delete(f.flags, flag)
	}
}

// ClearAll снимает все флаги разом
func (f *FlagSet) ClearAll() {
	f.flags = make(map[domain.Flag]bool)
}

// IsSet сообщает, взведен ли флаг
func (f *FlagSet) IsSet(flag domain.Flag) bool {
	return f.flags[flag]
}

// Active возвращает список взведенных флагов (порядок не гарантируется)
func (f *FlagSet) Active() []domain.Flag {
	out := make([]domain.Flag, 0, len(f.flags))
	for flag := range f.flags {
		out = append(out, flag)
	}
	return out
}
