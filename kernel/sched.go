package kernel

// The scheduler keeps the ready set as an intrusive list ordered by
// descending priority, FIFO among equals. Each thread runs on its own
// goroutine but exactly one is unparked at a time: handing over the
// processor means sending the wake message to the chosen thread's
// channel and parking on one's own. Preemption by a thread readied
// from interrupt context takes effect at the running thread's next
// kernel entry; preemption by a thread readied from thread context
// happens before the readying call returns.

// readyEnqueueI inserts t behind the last thread of equal or higher
// priority. Lock held.
func (k *Kernel) readyEnqueueI(t *Thread) {
	t.status = StatusReady
	var prev *Thread
	q := k.readyHead
	for q != nil && q.prio >= t.prio {
		prev = q
		q = q.next
	}
	t.next = q
	if prev == nil {
		k.readyHead = t
	} else {
		prev.next = t
	}
}

// readyI makes t ready to run with msg as its eventual wake value and
// dispatches it at once when the processor is idle. Lock held.
func (k *Kernel) readyI(t *Thread, msg Msg) {
	t.wkmsg = msg
	k.readyEnqueueI(t)
	if k.cur == nil {
		k.pickNextI()
	}
}

// pickNextI pops the highest-priority ready thread and makes it the
// running one, starting its goroutine on first dispatch. The processor
// goes idle when the ready set is empty. Lock held.
func (k *Kernel) pickNextI() {
	t := k.readyHead
	if t == nil {
		k.cur = nil
		return
	}
	k.readyHead = t.next
	t.next = nil
	t.status = StatusRunning
	k.cur = t
	if !t.started {
		t.started = true
		go k.threadEntry(t)
		return
	}
	t.wake <- t.wkmsg
}

// blockCur parks the calling thread under the given status, dispatches
// the next ready thread and waits for the wake message. Lock held on
// entry, released on return.
func (k *Kernel) blockCur(status Status) Msg {
	t := k.cur
	t.status = status
	k.pickNextI()
	k.mu.Unlock()
	return <-t.wake
}

// reschedUnlock releases the lock, first yielding the processor when a
// strictly higher-priority thread has become ready. Must be called
// from the running thread's goroutine.
func (k *Kernel) reschedUnlock() {
	t := k.cur
	if t == nil || k.readyHead == nil || k.readyHead.prio <= t.prio {
		k.mu.Unlock()
		return
	}
	t.wkmsg = MsgOK
	k.readyEnqueueI(t)
	k.pickNextI()
	k.mu.Unlock()
	<-t.wake
}

// Yield moves the calling thread behind its priority peers and
// dispatches the next eligible thread. It returns immediately when no
// thread of equal or higher priority is ready.
func (k *Kernel) Yield() {
	k.mu.Lock()
	t := k.cur
	if k.readyHead == nil || k.readyHead.prio < t.prio {
		k.mu.Unlock()
		return
	}
	t.wkmsg = MsgOK
	k.readyEnqueueI(t)
	k.pickNextI()
	k.mu.Unlock()
	<-t.wake
}

// Sleep blocks the calling thread for the given number of ticks.
// Sleep(0) returns immediately.
func (k *Kernel) Sleep(ticks Systime) {
	if ticks == 0 {
		return
	}
	k.mu.Lock()
	t := k.cur
	var vt VTimer
	_ = k.SetTimerI(&vt, ticks, func(any) {
		k.readyI(t, MsgOK)
	}, nil)
	k.blockCur(StatusSleeping)
}

// SleepUntil blocks the calling thread until the tick counter reaches
// deadline. A deadline at or before the current tick returns
// immediately. The comparison is wrap-aware within half the counter
// range.
func (k *Kernel) SleepUntil(deadline Systime) {
	k.mu.Lock()
	delta := deadline - k.now
	if delta == 0 || int32(delta) < 0 {
		k.mu.Unlock()
		return
	}
	t := k.cur
	var vt VTimer
	_ = k.SetTimerI(&vt, delta, func(any) {
		k.readyI(t, MsgOK)
	}, nil)
	k.blockCur(StatusSleeping)
}
