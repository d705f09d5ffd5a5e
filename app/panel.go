package app

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"chime/hal"
	"chime/kernel"
)

var (
	colorBG    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colorFG    = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorDim   = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	colorRun   = color.RGBA{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff}
	colorSleep = color.RGBA{R: 0xff, G: 0xdd, B: 0x66, A: 0xff}
	colorDead  = color.RGBA{R: 0xdf, G: 0x4a, B: 0x4a, A: 0xff}
)

type panelRow struct {
	name string
	tp   *kernel.Thread
}

// panelThread repaints the thread table ten times a second.
func panelThread(k *kernel.Kernel, fb hal.Framebuffer, rows []panelRow) kernel.ThreadFunc {
	d := newFBDisplay(fb)
	font := &proggy.TinySZ8pt7b
	return func(any) {
		for {
			render(k, d, font, rows)
			k.Sleep(kernel.MS2ST(100))
		}
	}
}

func render(k *kernel.Kernel, d *fbDisplay, font tinyfont.Fonter, rows []panelRow) {
	d.fb.ClearRGB(colorBG.R, colorBG.G, colorBG.B)

	y := int16(12)
	tinyfont.WriteLine(d, font, 8, y, fmt.Sprintf("chime  tick %d", k.Now()), colorFG)
	y += 14
	tinyfont.WriteLine(d, font, 8, y, "thread  prio  status", colorDim)
	y += 12

	for _, row := range rows {
		st := row.tp.Status()
		line := fmt.Sprintf("%-7s %4d  %s", row.name, row.tp.Prio(), st)
		tinyfont.WriteLine(d, font, 8, y, line, statusColor(st))
		y += 12
	}

	_ = d.Display()
}

func statusColor(st kernel.Status) color.RGBA {
	switch st {
	case kernel.StatusRunning, kernel.StatusReady:
		return colorRun
	case kernel.StatusSleeping, kernel.StatusSuspended:
		return colorSleep
	case kernel.StatusTerminated:
		return colorDead
	default:
		return colorFG
	}
}

// fbDisplay adapts the HAL framebuffer to drivers.Displayer so
// tinyfont can draw on it.
type fbDisplay struct {
	fb hal.Framebuffer
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}
