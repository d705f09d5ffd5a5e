// Package kernel is a tick-driven real-time kernel core: a delta-queue
// virtual timer engine and a strict-priority thread scheduler with
// sleep, suspend/resume and join primitives.
//
// The kernel owns no memory: timer nodes and thread workspaces are
// caller-provided and only borrowed for list membership. All kernel
// state is guarded by a single system lock; public operations acquire
// and release it internally, callers never hold it across a call.
package kernel

import "sync"

// Systime is the monotonic tick counter type. It wraps at 32 bits;
// deadlines are always expressed as deltas within one wrap period.
type Systime uint32

// Prio is a thread priority. Larger values run first.
type Prio uint32

// Msg is an opaque word exchanged between threads on wakeup, resume
// and exit. The kernel transports it verbatim except for the reserved
// sentinels below.
type Msg int32

const (
	// MsgOK is the normal wakeup value.
	MsgOK Msg = 0
	// MsgTimeout is delivered when a timed blocking call expires
	// before a resume arrives.
	MsgTimeout Msg = -1
	// MsgReset reports a refused rendezvous: a suspend found the
	// reference slot already occupied. Otherwise reserved for forced
	// releases.
	MsgReset Msg = -2
)

// Standard priority levels. Any Prio value works; these are the
// conventional bands.
const (
	LowPrio    Prio = 16
	NormalPrio Prio = 64
	HighPrio   Prio = 128
)

// Kernel holds the ready set, the virtual timer list and the running
// thread. Construct one with New; the constructing goroutine becomes
// the main thread.
type Kernel struct {
	mu sync.Mutex

	now Systime
	cur *Thread

	readyHead *Thread
	vtHead    *VTimer

	main *Thread
}

// New creates a kernel instance. The calling goroutine is registered
// as the running main thread at NormalPrio; every other thread-context
// operation must be invoked from the goroutine of whichever thread the
// kernel has dispatched.
func New() *Kernel {
	k := &Kernel{}
	k.main = &Thread{
		k:       k,
		prio:    NormalPrio,
		status:  StatusRunning,
		started: true,
		wake:    make(chan Msg, 1),
	}
	k.cur = k.main
	return k
}

// MainThread returns the thread bound to the goroutine that called New.
func (k *Kernel) MainThread() *Thread { return k.main }

// Now returns the current tick count.
func (k *Kernel) Now() Systime {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.now
}

// LockSystem enters the kernel critical section from thread context.
// It is not reentrant. Use it only around I-class calls; the regular
// public operations lock on their own.
func (k *Kernel) LockSystem() { k.mu.Lock() }

// UnlockSystem leaves the kernel critical section from thread context.
func (k *Kernel) UnlockSystem() { k.mu.Unlock() }

// LockSystemFromISR enters the kernel critical section from interrupt
// context. On this port it is the same mutex as LockSystem; the paired
// entry points are kept so ports with asymmetric masking sequences can
// diverge without touching callers.
func (k *Kernel) LockSystemFromISR() { k.mu.Lock() }

// UnlockSystemFromISR leaves the kernel critical section from
// interrupt context.
func (k *Kernel) UnlockSystemFromISR() { k.mu.Unlock() }

// Tick is the periodic tick interrupt service. It advances the tick
// counter, services the virtual timer list and, when the processor is
// idle, dispatches a thread readied by a timer. A thread readied while
// another is running starts at the running thread's next kernel entry.
//
// Exactly one tick source may call it.
func (k *Kernel) Tick() {
	k.LockSystemFromISR()
	k.now++
	k.tickServiceI()
	k.UnlockSystemFromISR()
}
