package kernel

import (
	"errors"
	"runtime"
)

// MinStackSize is the smallest workspace accepted by CreateThread.
// The Go runtime manages the real stack; the workspace records the
// bounds a port with manual stacks would carve the context frame from.
const MinStackSize = 256

var (
	// ErrStackTooSmall is returned by CreateThread when the supplied
	// workspace is below MinStackSize.
	ErrStackTooSmall = errors.New("workspace below minimum stack size")
	// ErrAlreadyJoined is returned by Wait when another thread is
	// already waiting on the target, or the target was reclaimed.
	ErrAlreadyJoined = errors.New("thread already joined")
)

// Status is a thread lifecycle state.
type Status uint8

const (
	StatusReady Status = iota + 1
	StatusRunning
	StatusSleeping
	StatusSuspended
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusSleeping:
		return "sleeping"
	case StatusSuspended:
		return "suspended"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ThreadFunc is a thread entry function. Returning from it terminates
// the thread with MsgOK, as if it had called Exit.
type ThreadFunc func(arg any)

// Thread is a thread control block. At most one thread is running at a
// time; the rest of the live set is ready, sleeping, suspended or
// terminated. A terminated thread keeps its exit value until exactly
// one Wait reclaims it.
type Thread struct {
	k *Kernel

	next *Thread // ready queue link

	prio    Prio
	status  Status
	started bool

	fn  ThreadFunc
	arg any
	ws  []byte

	wake  chan Msg
	wkmsg Msg

	exitMsg Msg
	joiner  *Thread
	reaped  bool
}

// Prio returns the thread's priority. Fixed at creation.
func (t *Thread) Prio() Prio { return t.prio }

// Status returns the thread's current lifecycle state.
func (t *Thread) Status() Status {
	t.k.mu.Lock()
	defer t.k.mu.Unlock()
	return t.status
}

// StackSize returns the size of the caller-supplied workspace.
func (t *Thread) StackSize() int { return len(t.ws) }

// ThreadRef is the rendezvous slot shared by Suspend and Resume: the
// suspending thread writes its identity into the slot, the resuming
// side takes and clears it. Whichever of resume and timeout clears the
// slot first wins; the other finds it empty and does nothing.
type ThreadRef struct {
	tp *Thread
}

// CreateThread starts a new thread over the caller-supplied workspace.
// The thread enters the ready set immediately and preempts the caller
// if it has strictly higher priority.
func (k *Kernel) CreateThread(ws []byte, prio Prio, fn ThreadFunc, arg any) (*Thread, error) {
	if len(ws) < MinStackSize {
		return nil, ErrStackTooSmall
	}
	t := &Thread{
		k:    k,
		prio: prio,
		fn:   fn,
		arg:  arg,
		ws:   ws,
		wake: make(chan Msg, 1),
	}
	k.mu.Lock()
	k.readyI(t, MsgOK)
	k.reschedUnlock()
	return t, nil
}

func (k *Kernel) threadEntry(t *Thread) {
	t.fn(t.arg)
	k.Exit(MsgOK)
}

// Exit terminates the calling thread with msg as its exit value, wakes
// its joiner if one is already waiting, and dispatches the next ready
// thread. It does not return.
func (k *Kernel) Exit(msg Msg) {
	k.mu.Lock()
	t := k.cur
	t.status = StatusTerminated
	t.exitMsg = msg
	if t.joiner != nil {
		// Delivering to a parked joiner is the ownership transfer:
		// mark the terminal state reclaimed now, not when the joiner
		// eventually runs, so no other join can slip in between.
		t.reaped = true
		k.readyI(t.joiner, msg)
	}
	k.pickNextI()
	k.mu.Unlock()
	runtime.Goexit()
}

// Wait blocks until tp terminates, then reclaims and returns its exit
// value. Waiting on an already-terminated thread returns immediately.
// Only one join per thread may succeed; further attempts report
// ErrAlreadyJoined.
func (k *Kernel) Wait(tp *Thread) (Msg, error) {
	k.mu.Lock()
	if tp.status == StatusTerminated {
		if tp.reaped {
			k.mu.Unlock()
			return 0, ErrAlreadyJoined
		}
		tp.reaped = true
		msg := tp.exitMsg
		k.mu.Unlock()
		return msg, nil
	}
	if tp.joiner != nil {
		k.mu.Unlock()
		return 0, ErrAlreadyJoined
	}
	tp.joiner = k.cur
	msg := k.blockCur(StatusSuspended)
	return msg, nil
}

// Suspend blocks the calling thread on trp until a matching Resume.
// The resume message is returned. The slot must be empty: at most one
// thread may park on a reference, and a second suspend is refused with
// MsgReset without blocking.
func (k *Kernel) Suspend(trp *ThreadRef) Msg {
	k.mu.Lock()
	if trp.tp != nil {
		k.mu.Unlock()
		return MsgReset
	}
	trp.tp = k.cur
	return k.blockCur(StatusSuspended)
}

// SuspendTimeout is Suspend bounded by a timeout in ticks. If the
// timeout fires before any resume, MsgTimeout is returned and the
// slot is cleared. A zero timeout returns MsgTimeout without blocking;
// an occupied slot is refused with MsgReset, as in Suspend.
func (k *Kernel) SuspendTimeout(trp *ThreadRef, timeout Systime) Msg {
	k.mu.Lock()
	if trp.tp != nil {
		k.mu.Unlock()
		return MsgReset
	}
	if timeout == 0 {
		k.mu.Unlock()
		return MsgTimeout
	}
	var vt VTimer
	_ = k.SetTimerI(&vt, timeout, func(any) {
		if tp := trp.tp; tp != nil {
			trp.tp = nil
			k.readyI(tp, MsgTimeout)
		}
	}, nil)
	trp.tp = k.cur
	msg := k.blockCur(StatusSuspended)
	k.ResetTimer(&vt)
	return msg
}

// Resume readies the thread parked on trp, handing it msg as the
// return value of its suspend call, and clears the slot. Resuming an
// empty slot is a no-op. The caller is preempted if the resumed thread
// has strictly higher priority.
func (k *Kernel) Resume(trp *ThreadRef, msg Msg) {
	k.mu.Lock()
	k.ResumeI(trp, msg)
	k.reschedUnlock()
}

// ResumeI is Resume for interrupt context and timer callbacks: no
// reschedule happens, the readied thread runs at the next dispatch
// point. Lock held.
func (k *Kernel) ResumeI(trp *ThreadRef, msg Msg) {
	tp := trp.tp
	if tp == nil {
		return
	}
	trp.tp = nil
	k.readyI(tp, msg)
}
