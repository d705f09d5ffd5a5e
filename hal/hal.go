// Package hal is the only contact point between the kernel demo and
// the outside world: a tick source, an LED, a line logger and an
// optional framebuffer. The host implementation simulates the hardware
// in a window; the TinyGo implementation drives the real pins.
package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides the periodic tick stream that drives the kernel.
//
// The stream rate matches the kernel tick frequency; each value is the
// tick sequence number.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the platform surface the demo boots against.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Time() Time
}
