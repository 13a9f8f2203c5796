// Keypad matrix scanner: 5 row lines driven one at a time, 4 column lines
// read back, giving key identity row*4+col. Runs as its own polling
// goroutine and feeds debounced press/release events to the input dispatch.
package keypad

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	gpio "github.com/temoto/gpio-cdev-go"

	"github.com/passpoint/kiosk/hardware/input"
	"github.com/passpoint/kiosk/log2"
)

const SourceTag = "keypad-matrix"

const (
	defaultScanInterval  = 5 * time.Millisecond
	defaultDebounceScans = 2
)

type Config struct {
	PinChip       string
	Rows          []uint32
	Cols          []uint32
	ScanInterval  time.Duration
	DebounceScans uint8
}

// rowReader drives one row high and returns the column bitmask.
// Indirection point for tests.
type rowReader interface {
	ScanRow(row int) (uint8, error)
	Close() error
}

type Scanner struct {
	log     *log2.Log
	alive   *alive.Alive
	cfg     Config
	reader  rowReader
	nkeys   int
	pressed []bool
	settle  []uint8
	events  chan input.Event
}

// compile-time interface compliance test
var _ input.Source = new(Scanner)

func NewScanner(cfg Config, log *log2.Log) (*Scanner, error) {
	reader, err := openGpioReader(&cfg)
	if err != nil {
		return nil, errors.Annotate(err, "keypad gpio")
	}
	return newScanner(cfg, log, reader), nil
}

func newScanner(cfg Config, log *log2.Log, reader rowReader) *Scanner {
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = defaultScanInterval
	}
	if cfg.DebounceScans == 0 {
		cfg.DebounceScans = defaultDebounceScans
	}
	nkeys := len(cfg.Rows) * len(cfg.Cols)
	return &Scanner{
		log:     log,
		alive:   alive.NewAlive(),
		cfg:     cfg,
		reader:  reader,
		nkeys:   nkeys,
		pressed: make([]bool, nkeys),
		settle:  make([]uint8, nkeys),
		events:  make(chan input.Event, 16),
	}
}

func (self *Scanner) String() string { return SourceTag }

// Read implements input.Source; blocks until a debounced transition.
func (self *Scanner) Read() (input.Event, error) {
	select {
	case e := <-self.events:
		return e, nil
	case <-self.alive.StopChan():
		return input.Event{}, input.ErrSourceClosed
	}
}

// Poll is the non-blocking variant: second value is false when no event
// is available.
func (self *Scanner) Poll() (input.Event, bool) {
	select {
	case e := <-self.events:
		return e, true
	default:
		return input.Event{}, false
	}
}

func (self *Scanner) Run() {
	tmr := time.NewTicker(self.cfg.ScanInterval)
	defer tmr.Stop()
	stopch := self.alive.StopChan()

	for self.alive.IsRunning() {
		select {
		case <-tmr.C:
			if err := self.scanOnce(); err != nil {
				// do not crash the poll loop, skip this cycle
				self.log.Errorf("keypad scan err=%v", err)
			}
		case <-stopch:
			return
		}
	}
}

func (self *Scanner) Stop() {
	self.alive.Stop()
	if err := self.reader.Close(); err != nil {
		self.log.Errorf("keypad close err=%v", err)
	}
}

func (self *Scanner) scanOnce() error {
	for row := 0; row < len(self.cfg.Rows); row++ {
		mask, err := self.reader.ScanRow(row)
		if err != nil {
			return errors.Annotatef(err, "row=%d", row)
		}
		for col := 0; col < len(self.cfg.Cols); col++ {
			raw := mask&(1<<uint(col)) != 0
			self.debounce(row*len(self.cfg.Cols)+col, raw)
		}
	}
	return nil
}

// debounce requires DebounceScans consecutive equal readings before a
// transition is reported. Pressed and Released alternate per key by
// construction.
func (self *Scanner) debounce(key int, raw bool) {
	if raw == self.pressed[key] {
		self.settle[key] = 0
		return
	}
	self.settle[key]++
	if self.settle[key] < self.cfg.DebounceScans {
		return
	}
	self.pressed[key] = raw
	self.settle[key] = 0
	self.emit(input.Event{
		Source: SourceTag,
		Key:    input.Key(key),
		Up:     !raw,
	})
}

func (self *Scanner) emit(e input.Event) {
	select {
	case self.events <- e:
	default:
		// internal buffer full, newest transition is dropped
		self.log.Errorf("keypad event buffer full drop=%s", e.String())
	}
}

type gpioReader struct {
	chip   gpio.Chiper
	rows   gpio.Lineser
	cols   gpio.Lineser
	rowSet []gpio.LineSetFunc
	nrows  int
	ncols  int
}

func openGpioReader(cfg *Config) (*gpioReader, error) {
	chip, err := gpio.Open(cfg.PinChip, "keypad")
	if err != nil {
		return nil, errors.Annotatef(err, "chip=%s", cfg.PinChip)
	}
	rows, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, "keypad-rows", cfg.Rows...)
	if err != nil {
		chip.Close()
		return nil, errors.Annotate(err, "row lines")
	}
	cols, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_INPUT, "keypad-cols", cfg.Cols...)
	if err != nil {
		rows.Close()
		chip.Close()
		return nil, errors.Annotate(err, "col lines")
	}
	r := &gpioReader{
		chip:   chip,
		rows:   rows,
		cols:   cols,
		rowSet: make([]gpio.LineSetFunc, len(cfg.Rows)),
		nrows:  len(cfg.Rows),
		ncols:  len(cfg.Cols),
	}
	for i, offset := range cfg.Rows {
		r.rowSet[i] = rows.SetFunc(offset)
	}
	return r, nil
}

func (self *gpioReader) ScanRow(row int) (uint8, error) {
	for i := 0; i < self.nrows; i++ {
		v := byte(0)
		if i == row {
			v = 1
		}
		self.rowSet[i](v)
	}
	if err := self.rows.Flush(); err != nil {
		return 0, err
	}
	data, err := self.cols.Read()
	if err != nil {
		return 0, err
	}
	mask := uint8(0)
	for i := 0; i < self.ncols; i++ {
		if data.Values[i] != 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask, nil
}

func (self *gpioReader) Close() error {
	self.cols.Close()
	self.rows.Close()
	return self.chip.Close()
}
