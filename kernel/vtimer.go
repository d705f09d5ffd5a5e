package kernel

import "errors"

var (
	// ErrZeroDelay is returned when a timer is armed with a zero delay.
	ErrZeroDelay = errors.New("zero timer delay")
	// ErrTimerArmed is returned when an armed timer is armed again
	// without an intervening reset.
	ErrTimerArmed = errors.New("timer already armed")
)

// TimerFunc is a virtual timer callback. It runs synchronously inside
// the tick service, at interrupt level with the system lock held: it
// must not block and may only call I-class kernel operations.
type TimerFunc func(par any)

// VTimer is a one-shot virtual timer node. The storage is caller-owned;
// the kernel only links an armed node into its deadline list. A node
// must not be re-armed while armed and must stay allocated until it
// fires or is reset.
type VTimer struct {
	next  *VTimer
	prev  *VTimer
	delta Systime
	fn    TimerFunc
	par   any
}

// Armed reports whether the timer is currently linked into the
// deadline list. The read is not synchronized: call it with the
// system lock held, or while the tick source is quiescent.
func (vt *VTimer) Armed() bool { return vt.fn != nil }

// SetTimer arms vt to fire fn(par) delay ticks from now. Timers with
// equal deadlines fire in arming order.
func (k *Kernel) SetTimer(vt *VTimer, delay Systime, fn TimerFunc, par any) error {
	k.mu.Lock()
	err := k.SetTimerI(vt, delay, fn, par)
	k.mu.Unlock()
	return err
}

// SetTimerI is SetTimer for callers already inside the system lock,
// including timer callbacks re-arming themselves or other nodes.
func (k *Kernel) SetTimerI(vt *VTimer, delay Systime, fn TimerFunc, par any) error {
	if delay == 0 {
		return ErrZeroDelay
	}
	if vt.fn != nil {
		return ErrTimerArmed
	}

	// Walk the delta chain: consume each node's delta until the
	// remaining delay fits before the next node.
	d := delay
	var prev *VTimer
	next := k.vtHead
	for next != nil && next.delta <= d {
		d -= next.delta
		prev = next
		next = next.next
	}

	vt.delta = d
	vt.fn = fn
	vt.par = par
	vt.prev = prev
	vt.next = next
	if prev == nil {
		k.vtHead = vt
	} else {
		prev.next = vt
	}
	if next != nil {
		next.prev = vt
		next.delta -= d
	}
	return nil
}

// ResetTimer disarms vt. Resetting an unarmed timer is a no-op.
func (k *Kernel) ResetTimer(vt *VTimer) {
	k.mu.Lock()
	k.ResetTimerI(vt)
	k.mu.Unlock()
}

// ResetTimerI is ResetTimer for callers already inside the system lock.
func (k *Kernel) ResetTimerI(vt *VTimer) {
	if vt.fn == nil {
		return
	}
	if vt.next != nil {
		// Give the removed delta back to the successor so the
		// chain still sums to absolute deadlines.
		vt.next.delta += vt.delta
		vt.next.prev = vt.prev
	}
	if vt.prev == nil {
		k.vtHead = vt.next
	} else {
		vt.prev.next = vt.next
	}
	vt.next = nil
	vt.prev = nil
	vt.fn = nil
	vt.par = nil
}

// tickServiceI burns one tick off the head of the deadline list and
// fires every timer that reaches zero. Multiple timers may expire on
// the same tick; they fire in deadline order, arming order among
// equals. Lock held.
func (k *Kernel) tickServiceI() {
	if k.vtHead == nil {
		return
	}
	k.vtHead.delta--
	for k.vtHead != nil && k.vtHead.delta == 0 {
		vt := k.vtHead
		k.vtHead = vt.next
		if k.vtHead != nil {
			k.vtHead.prev = nil
		}
		fn, par := vt.fn, vt.par
		vt.next = nil
		vt.prev = nil
		vt.fn = nil
		vt.par = nil
		fn(par)
	}
}
