// Package tele mirrors device state to a host-side visualizer as
// line-delimited JSON records over a serial link. Strictly a debugging
// aid: best-effort, drops records when the link is slow, never blocks
// the UI loop.
package tele

import (
	"encoding/json"
	"io"
	"time"

	"github.com/juju/errors"
	"github.com/tarm/serial"
	"github.com/temoto/alive/v2"

	"github.com/passpoint/kiosk/log2"
)

type Config struct { //nolint:maligned
	Enable    bool   `hcl:"enable"`
	Device    string `hcl:"device"`
	Baud      int    `hcl:"baud"`
	QueueSize int    `hcl:"queue_size"`
	LogDebug  bool   `hcl:"log_debug"`
}

const (
	defaultBaud      = 115200
	defaultQueueSize = 32
)

type Event struct {
	Kind     string  `json:"kind"`
	Time     int64   `json:"time"`
	L1       string  `json:"l1,omitempty"`
	L2       string  `json:"l2,omitempty"`
	Key      string  `json:"key,omitempty"`
	Up       bool    `json:"up,omitempty"`
	ID       string  `json:"id,omitempty"`
	Decision string  `json:"decision,omitempty"`
	Percent  float32 `json:"percent,omitempty"`
	Voltage  float32 `json:"voltage,omitempty"`
}

// Tele is nil-safe: all methods on a nil receiver are no-ops, so callers
// never guard on the mirror being enabled.
type Tele struct {
	log   *log2.Log
	alive *alive.Alive
	out   io.WriteCloser
	ch    chan Event
}

// NewTele opens the serial link and starts the writer. Returns nil,nil when
// the mirror is disabled in config.
func NewTele(log *log2.Log, cfg Config) (*Tele, error) {
	if !cfg.Enable {
		return nil, nil
	}
	if cfg.Baud == 0 {
		cfg.Baud = defaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: cfg.Device, Baud: cfg.Baud})
	if err != nil {
		return nil, errors.Annotatef(err, "tele device=%s", cfg.Device)
	}
	return newTele(log, cfg, port), nil
}

func newTele(log *log2.Log, cfg Config, out io.WriteCloser) *Tele {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.LogDebug {
		log.SetLevel(log2.LDebug)
	}
	self := &Tele{
		log:   log,
		alive: alive.NewAlive(),
		out:   out,
		ch:    make(chan Event, cfg.QueueSize),
	}
	self.alive.Add(1)
	go self.run()
	return self
}

func (self *Tele) Close() {
	if self == nil {
		return
	}
	self.alive.Stop()
	self.alive.Wait()
}

func (self *Tele) Screen(l1, l2 string) {
	self.emit(Event{Kind: "screen", L1: l1, L2: l2})
}

func (self *Tele) Key(label string, up bool) {
	self.emit(Event{Kind: "key", Key: label, Up: up})
}

func (self *Tele) Decision(id, decision, label string) {
	self.emit(Event{Kind: "decision", ID: id, Decision: decision, L2: label})
}

func (self *Tele) Heartbeat(percent, voltage float32) {
	self.emit(Event{Kind: "heartbeat", Percent: percent, Voltage: voltage})
}

func (self *Tele) emit(e Event) {
	if self == nil {
		return
	}
	e.Time = time.Now().UnixNano()
	select {
	case self.ch <- e:
	default:
		self.log.Debugf("tele queue full, dropped kind=%s", e.Kind)
	}
}

func (self *Tele) run() {
	defer self.out.Close()
	enc := json.NewEncoder(self.out)
	stopch := self.alive.StopChan()
	for {
		select {
		case e := <-self.ch:
			if err := enc.Encode(e); err != nil {
				self.log.Errorf("tele write err=%v", err)
			}
		case <-stopch:
			// flush whatever is queued, then close
			for {
				select {
				case e := <-self.ch:
					_ = enc.Encode(e)
				default:
					self.alive.Done()
					return
				}
			}
		}
	}
}
