package allowlist

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/passpoint/kiosk/log2"
)

const DefaultIDColumn = "STUDENT_PIN"

// Decision is the outcome of an ID check. NotFound and Denied are expected
// frequent outcomes, not error paths; only DataError means the table itself
// could not be read.
type Decision byte

const (
	DataError Decision = iota
	NotFound
	Denied
	Allowed
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	case NotFound:
		return "not-found"
	}
	return "data-error"
}

type Result struct {
	Decision Decision
	// Label is the free-text note column of the matched row, may be empty.
	Label string
}

// row column positions when the file carries no header
const (
	colID = iota
	colA
	colB
	colLog
)

// Table is the file-backed permission list. Rows are cached in memory;
// Load runs at boot and again on the upload menu action.
type Table struct { //nolint:maligned
	log      *log2.Log
	path     string
	idColumn string
	readFile func(string) ([]byte, error)

	mu   sync.RWMutex
	rows []record
}

type record struct {
	id  string
	a   string
	b   string
	log string
}

func NewTable(log *log2.Log, path, idColumn string) *Table {
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}
	return &Table{
		log:      log,
		path:     path,
		idColumn: idColumn,
		readFile: os.ReadFile,
	}
}

// Load replaces the cached rows from the file. On error the previous cache
// is kept so a failed re-upload does not wipe a working table.
func (self *Table) Load() (int, error) {
	b, err := self.readFile(self.path)
	if err != nil {
		return 0, errors.Annotatef(err, "allowlist path=%s", self.path)
	}
	rows := self.parse(string(b))

	self.mu.Lock()
	self.rows = rows
	self.mu.Unlock()
	self.log.Infof("allowlist loaded path=%s rows=%d", self.path, len(rows))
	return len(rows), nil
}

func (self *Table) Len() int {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return len(self.rows)
}

// Check resolves an ID against the cached table for the given rotation day
// and block. Permitted iff the field for the day letter parses as an integer
// and its value <= block; a missing or unparseable field means never
// permitted. Empty cache (never loaded or file was unreadable) is DataError.
func (self *Table) Check(id string, day byte, block int) Result {
	self.mu.RLock()
	defer self.mu.RUnlock()

	if self.rows == nil {
		return Result{Decision: DataError}
	}
	id = strings.TrimSpace(id)
	for _, r := range self.rows {
		if r.id != id {
			continue
		}
		field := r.a
		if day == 'B' {
			field = r.b
		}
		max, err := strconv.Atoi(field)
		if err != nil {
			return Result{Decision: Denied, Label: r.log}
		}
		if max <= block {
			return Result{Decision: Allowed, Label: r.log}
		}
		return Result{Decision: Denied, Label: r.log}
	}
	return Result{Decision: NotFound}
}

// parse splits the delimited text into records. The first line is a header
// only if it contains the ID column name; otherwise the whole file is data
// and columns are positional: ID, max-block-A, max-block-B, note.
func (self *Table) parse(text string) []record {
	lines := strings.Split(text, "\n")
	idIdx, aIdx, bIdx, logIdx := colID, colA, colB, colLog

	if len(lines) > 0 {
		header := splitLine(lines[0])
		if i := indexOf(header, self.idColumn); i >= 0 {
			idIdx = i
			if j := indexOf(header, "A"); j >= 0 {
				aIdx = j
			}
			if j := indexOf(header, "B"); j >= 0 {
				bIdx = j
			}
			if j := indexOf(header, "log"); j >= 0 {
				logIdx = j
			}
			lines = lines[1:]
		}
	}

	rows := make([]record, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		rows = append(rows, record{
			id:  at(fields, idIdx),
			a:   at(fields, aIdx),
			b:   at(fields, bIdx),
			log: at(fields, logIdx),
		})
	}
	return rows
}

func splitLine(line string) []string {
	parts := strings.Split(strings.TrimRight(line, "\r"), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func indexOf(ss []string, s string) int {
	for i, x := range ss {
		if x == s {
			return i
		}
	}
	return -1
}

func at(ss []string, i int) string {
	if i < 0 || i >= len(ss) {
		return ""
	}
	return ss[i]
}
