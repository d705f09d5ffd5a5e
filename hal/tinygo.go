//go:build tinygo

package hal

import (
	"machine"
	"time"
)

type tinygoHAL struct {
	led *tinygoLED
	t   *tinygoTime
}

// New returns the TinyGo HAL implementation: the board LED and a
// ticker-driven tick stream. No framebuffer is exposed; boards with a
// display can add one behind the Display interface.
func New() HAL {
	led := &tinygoLED{pin: machine.LED}
	led.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &tinygoHAL{
		led: led,
		t:   newTinygoTime(),
	}
}

func (h *tinygoHAL) Logger() Logger   { return tinygoLogger{} }
func (h *tinygoHAL) LED() LED         { return h.led }
func (h *tinygoHAL) Display() Display { return nil }
func (h *tinygoHAL) Time() Time       { return h.t }

type tinygoLogger struct{}

func (tinygoLogger) WriteLineString(s string) { println(s) }
func (tinygoLogger) WriteLineBytes(b []byte)  { println(string(b)) }

type tinygoLED struct {
	pin machine.Pin
}

func (l *tinygoLED) High() { l.pin.High() }
func (l *tinygoLED) Low()  { l.pin.Low() }

type tinygoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinygoTime() *tinygoTime {
	t := &tinygoTime{ch: make(chan uint64, 64)}
	go t.run()
	return t
}

func (t *tinygoTime) Ticks() <-chan uint64 { return t.ch }

func (t *tinygoTime) run() {
	tick := time.NewTicker(tickDurTinygo)
	defer tick.Stop()
	for range tick.C {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}

const tickDurTinygo = 10 * time.Millisecond
