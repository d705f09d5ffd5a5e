// Package app boots a demo image over the chime kernel: a heartbeat
// blinker, an echo pair exercising the suspend/resume rendezvous, a
// staged worker joined by the boot thread, and a framebuffer status
// panel on platforms that have a display.
package app

import (
	"fmt"

	"chime/hal"
	"chime/kernel"
)

// New boots the demo on its own goroutine and returns the per-frame
// step hook for the host runner. The kernel is driven by the HAL tick
// stream, not by the frame clock, so the hook is a no-op.
func New(h hal.HAL) func() error {
	go boot(h)
	return func() error { return nil }
}

// Run boots the demo and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

// boot runs on the kernel main thread.
func boot(h hal.HAL) {
	k := kernel.New()
	log := h.Logger()

	abi := kernel.SyscallABI()
	log.WriteLineString(fmt.Sprintf("chime: abi r%d, %d Hz tick, build %s",
		abi.Revision, abi.TickFrequency, abi.Version))

	// The tick source is the only interrupt: forward every tick into
	// the kernel's ISR entry point.
	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for range ch {
					k.Tick()
				}
			}()
		}
	}

	blink, err := k.CreateThread(ws(), kernel.NormalPrio, blinker(k, h.LED()), nil)
	if err != nil {
		log.WriteLineString("boot: blinker: " + err.Error())
		return
	}

	var echo kernel.ThreadRef
	resp, err := k.CreateThread(ws(), kernel.HighPrio, responder(k, log, &echo), nil)
	if err != nil {
		log.WriteLineString("boot: responder: " + err.Error())
		return
	}
	req, err := k.CreateThread(ws(), kernel.NormalPrio, requester(k, &echo), nil)
	if err != nil {
		log.WriteLineString("boot: requester: " + err.Error())
		return
	}

	worker, err := k.CreateThread(ws(), kernel.LowPrio, stagedSum(k), nil)
	if err != nil {
		log.WriteLineString("boot: worker: " + err.Error())
		return
	}

	rows := []panelRow{
		{"main", k.MainThread()},
		{"blink", blink},
		{"resp", resp},
		{"req", req},
		{"work", worker},
	}
	if d := h.Display(); d != nil {
		if fb := d.Framebuffer(); fb != nil {
			if _, err := k.CreateThread(ws(), kernel.NormalPrio, panelThread(k, fb, rows), nil); err != nil {
				log.WriteLineString("boot: panel: " + err.Error())
			}
		}
	}

	msg, err := k.Wait(worker)
	if err != nil {
		log.WriteLineString("boot: join worker: " + err.Error())
	} else {
		log.WriteLineString(fmt.Sprintf("boot: worker exited with %d", msg))
	}

	for {
		k.Sleep(kernel.S2ST(5))
		log.WriteLineString(fmt.Sprintf("boot: up %d s", kernel.ST2S(k.Now())))
	}
}

func ws() []byte { return make([]byte, kernel.MinStackSize) }

// blinker toggles the LED at 2 Hz forever.
func blinker(k *kernel.Kernel, led hal.LED) kernel.ThreadFunc {
	return func(any) {
		for {
			led.High()
			k.Sleep(kernel.MS2ST(250))
			led.Low()
			k.Sleep(kernel.MS2ST(250))
		}
	}
}

// responder parks on the rendezvous slot and logs every message the
// requester hands over.
func responder(k *kernel.Kernel, log hal.Logger, ref *kernel.ThreadRef) kernel.ThreadFunc {
	return func(any) {
		for {
			msg := k.Suspend(ref)
			log.WriteLineString(fmt.Sprintf("echo: %d", msg))
		}
	}
}

// requester resumes the responder once a second with a counter.
func requester(k *kernel.Kernel, ref *kernel.ThreadRef) kernel.ThreadFunc {
	return func(any) {
		for n := kernel.Msg(1); ; n++ {
			k.Sleep(kernel.S2ST(1))
			k.Resume(ref, n)
		}
	}
}

// stagedSum adds 1..10 one tick at a time and exits with the total.
func stagedSum(k *kernel.Kernel) kernel.ThreadFunc {
	return func(any) {
		sum := kernel.Msg(0)
		for i := kernel.Msg(1); i <= 10; i++ {
			sum += i
			k.Sleep(1)
		}
		k.Exit(sum)
	}
}
