package ui

import (
	"strings"

	"github.com/juju/errors"
)

// menu viewport is 2 display rows; the down-move arithmetic below assumes
// this via window-1, change window and the math follows
const window = 2

// label field width, one column is reserved for the cursor marker
const labelWidth = 15

// in-menu navigation keycaps: the numpad arrow legends on 8 and 2
const (
	navUpDigit   = 8
	navDownDigit = 2
)

// Action is invoked on entry selection; returning true closes the menu
// level that contains it.
type Action func() bool

// Entry target is tagged by which field is set: Sub, Do, or neither
// (terminal: activating it ends the current menu session).
type Entry struct {
	Label string
	Sub   *Node
	Do    Action
}

// Node is immutable shared menu structure. Navigation position lives in a
// per-activation session, never on the node: the same node may be active
// in nested sessions at once.
type Node struct {
	title   string
	entries []Entry
}

func NewNode(title string, entries ...Entry) (*Node, error) {
	if len(entries) == 0 {
		return nil, errors.Errorf("menu %q: zero entries", title)
	}
	return &Node{title: title, entries: entries}, nil
}

func MustNode(title string, entries ...Entry) *Node {
	n, err := NewNode(title, entries...)
	if err != nil {
		panic(err)
	}
	return n
}

func (self *Node) Title() string { return self.title }
func (self *Node) Len() int      { return len(self.entries) }

// MenuScreen is the slice of the display the menu needs.
// *lcd.TextDisplay satisfies it.
type MenuScreen interface {
	Clear()
	WriteText(row uint8, text string, clearLine bool)
}

// SymbolWaiter blocks for the next pressed symbol; false means the
// program is stopping and the session must unwind.
type SymbolWaiter interface {
	WaitSymbol() (Symbol, bool)
}

type session struct {
	scroll int
	cursor int
}

func (s *session) index() int { return s.scroll + s.cursor }

func (s *session) moveUp() {
	if s.cursor > 0 {
		s.cursor--
	} else if s.scroll > 0 {
		s.scroll--
	}
}

func (s *session) moveDown(total int) {
	if s.cursor < window-1 && s.scroll+s.cursor+1 < total {
		s.cursor++
	} else if s.scroll+window < total {
		s.scroll++
	}
}

// Activate runs one interactive menu session until the user backs out, an
// action signals done, or a terminal entry is selected. A nested submenu
// runs its own fresh session; this session's position is untouched and the
// view is fully redrawn on return.
func (self *Node) Activate(scr MenuScreen, in SymbolWaiter) {
	var s session
	self.render(scr, &s)
	for {
		sym, ok := in.WaitSymbol()
		if !ok {
			return
		}
		switch {
		case sym.IsDigit() && sym.Digit == navUpDigit:
			s.moveUp()
			self.render(scr, &s)

		case sym.IsDigit() && sym.Digit == navDownDigit:
			s.moveDown(len(self.entries))
			self.render(scr, &s)

		case sym.Kind == SymbolEnter:
			e := self.entries[s.index()]
			switch {
			case e.Sub != nil:
				e.Sub.Activate(scr, in)
				self.render(scr, &s)
			case e.Do != nil:
				if e.Do() {
					return
				}
				self.render(scr, &s)
			default:
				return
			}

		case sym.Kind == SymbolBack:
			// parent redraws its own view
			return
		}
	}
}

func (self *Node) render(scr MenuScreen, s *session) {
	scr.Clear()
	for row := 0; row < window; row++ {
		i := s.scroll + row
		line := ""
		if i < len(self.entries) {
			label := self.entries[i].Label
			if len(label) > labelWidth {
				label = label[:labelWidth]
			}
			marker := " "
			if row == s.cursor {
				marker = "<"
			}
			line = label + strings.Repeat(" ", labelWidth-len(label)) + marker
		}
		scr.WriteText(uint8(row), line, true)
	}
}
