package ui

// DayType is the schedule variant, independent of the A/B rotation.
type DayType byte

const (
	DayNormal DayType = iota
	DayAssembly
	DayWednesday
)

func (d DayType) String() string {
	switch d {
	case DayNormal:
		return "Regular Day"
	case DayAssembly:
		return "Assembly"
	case DayWednesday:
		return "Wednesday"
	}
	return "?"
}

// Settings live in memory only and reset to defaults on every power cycle.
// They are owned by the UI and handed to menu actions explicitly.
type Settings struct {
	Day   byte // 'A' or 'B'
	Type  DayType
	Block int // 1..4
}

func DefaultSettings() Settings {
	return Settings{Day: 'A', Type: DayNormal, Block: 1}
}
