package ui

import (
	"github.com/passpoint/kiosk/hardware/input"
)

type SymbolKind byte

const (
	SymbolNone SymbolKind = iota
	SymbolDigit
	SymbolDot
	SymbolPlus
	SymbolMinus
	SymbolSlash
	SymbolEnter
	SymbolBack // Num Lock
	SymbolMenu // *
)

type Symbol struct {
	Kind  SymbolKind
	Digit byte // 0..9, only for SymbolDigit
}

func digit(d byte) Symbol { return Symbol{Kind: SymbolDigit, Digit: d} }

// Fixed key identity -> symbol map of the 5x4 matrix. Identities 11 and 17
// are unpopulated positions and absent on purpose.
var keymap = map[input.Key]Symbol{
	0:  {Kind: SymbolBack},
	1:  {Kind: SymbolMenu},
	2:  {Kind: SymbolMinus},
	3:  {Kind: SymbolSlash},
	4:  digit(7),
	5:  digit(8),
	6:  digit(9),
	7:  {Kind: SymbolPlus},
	8:  digit(4),
	9:  digit(5),
	10: digit(6),
	12: digit(1),
	13: digit(2),
	14: digit(3),
	15: {Kind: SymbolEnter},
	16: digit(0),
	18: {Kind: SymbolDot},
}

// ParseKey returns SymbolNone for identities with no mapping; those events
// are ignored.
func ParseKey(k input.Key) Symbol {
	return keymap[k]
}

func (s Symbol) IsDigit() bool { return s.Kind == SymbolDigit }

// Char is the display character of a digit or dot symbol.
func (s Symbol) Char() byte {
	switch s.Kind {
	case SymbolDigit:
		return '0' + s.Digit
	case SymbolDot:
		return '.'
	}
	return 0
}

// KeyLabel is the keycap legend, used for event logging.
func KeyLabel(k input.Key) string {
	switch sym := keymap[k]; sym.Kind {
	case SymbolDigit:
		return string([]byte{'0' + sym.Digit})
	case SymbolDot:
		return "."
	case SymbolPlus:
		return "+"
	case SymbolMinus:
		return "-"
	case SymbolSlash:
		return "/"
	case SymbolEnter:
		return "Enter"
	case SymbolBack:
		return "Num Lock"
	case SymbolMenu:
		return "*"
	}
	return ""
}
