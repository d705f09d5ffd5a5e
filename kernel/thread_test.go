package kernel

import "testing"

func TestCreateThreadStackTooSmall(t *testing.T) {
	k := New()
	tp, err := k.CreateThread(make([]byte, MinStackSize-1), NormalPrio, func(any) {
		t.Error("undersized thread was scheduled")
	}, nil)
	if err != ErrStackTooSmall {
		t.Fatalf("err = %v, want ErrStackTooSmall", err)
	}
	if tp != nil {
		t.Fatal("got a thread for an undersized workspace")
	}
}

func TestSuspendResume(t *testing.T) {
	k := New()
	var ref ThreadRef
	var got Msg

	tp, err := k.CreateThread(workspace(), HighPrio, func(any) {
		got = k.Suspend(&ref)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if st := tp.Status(); st != StatusSuspended {
		t.Fatalf("status = %s, want suspended", st)
	}

	// Resume preempts: the higher-priority thread consumes the message
	// and terminates before Resume returns.
	k.Resume(&ref, 42)
	if _, err := k.Wait(tp); err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("suspend returned %d, want 42", got)
	}
	if ref.tp != nil {
		t.Fatal("reference not cleared by resume")
	}
}

func TestResumeEmptyReferenceIsNoop(t *testing.T) {
	k := New()
	var ref ThreadRef
	k.Resume(&ref, 7)
	if ref.tp != nil {
		t.Fatal("empty reference became occupied")
	}
}

func TestSuspendTimeoutExpires(t *testing.T) {
	k := New()
	var ref ThreadRef
	var got Msg

	tp, err := k.CreateThread(workspace(), HighPrio, func(any) {
		got = k.SuspendTimeout(&ref, 10)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 9; i++ {
		k.Tick()
	}
	if st := tp.Status(); st != StatusSuspended {
		t.Fatalf("status before timeout = %s, want suspended", st)
	}

	k.Tick()
	if _, err := k.Wait(tp); err != nil {
		t.Fatal(err)
	}
	if got != MsgTimeout {
		t.Fatalf("suspend returned %d, want MsgTimeout", got)
	}
	if ref.tp != nil {
		t.Fatal("reference not cleared by timeout")
	}
}

func TestSuspendTimeoutResumeWins(t *testing.T) {
	k := New()
	var ref ThreadRef
	var got Msg

	tp, err := k.CreateThread(workspace(), HighPrio, func(any) {
		got = k.SuspendTimeout(&ref, 10)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	k.Tick()
	k.Tick()
	k.Tick()
	k.Resume(&ref, 42)
	if _, err := k.Wait(tp); err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("suspend returned %d, want 42", got)
	}

	// The losing timeout must have been disarmed on wakeup; the
	// remaining ticks deliver nothing.
	if d := chainDeltas(k); d != nil {
		t.Fatalf("timer still armed after resume: %v", d)
	}
	for i := 0; i < 10; i++ {
		k.Tick()
	}
	if got != 42 {
		t.Fatalf("timeout fired after resume: %d", got)
	}
}

func TestSuspendTimeoutZeroIsImmediate(t *testing.T) {
	k := New()
	var ref ThreadRef
	if msg := k.SuspendTimeout(&ref, 0); msg != MsgTimeout {
		t.Fatalf("SuspendTimeout(0) = %d, want MsgTimeout", msg)
	}
	if ref.tp != nil {
		t.Fatal("zero timeout occupied the reference")
	}
}

func TestWaitAlreadyTerminated(t *testing.T) {
	k := New()
	tp, err := k.CreateThread(workspace(), HighPrio, func(any) {
		k.Exit(7)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if st := tp.Status(); st != StatusTerminated {
		t.Fatalf("status = %s, want terminated", st)
	}

	msg, err := k.Wait(tp)
	if err != nil || msg != 7 {
		t.Fatalf("Wait = %v, %v, want 7", msg, err)
	}

	// The terminal state is reclaimed by exactly one join.
	if _, err := k.Wait(tp); err != ErrAlreadyJoined {
		t.Fatalf("second Wait err = %v, want ErrAlreadyJoined", err)
	}
}

func TestWaitReclaimedAtExitDelivery(t *testing.T) {
	k := New()
	type joinResult struct {
		who string
		msg Msg
		err error
	}
	results := make(chan joinResult, 2)

	// target exits while an intermediate-priority thread is ready and
	// the parked joiner is outranked by it: the intermediate thread's
	// join attempt lands after termination but before the joiner has
	// run. Ownership must already belong to the joiner.
	target, err := k.CreateThread(workspace(), 160, func(any) {
		k.Sleep(2)
		k.Exit(7)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.CreateThread(workspace(), 136, func(any) {
		msg, err := k.Wait(target)
		results <- joinResult{"joiner", msg, err}
	}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := k.CreateThread(workspace(), 144, func(any) {
		k.Sleep(2)
		msg, err := k.Wait(target)
		results <- joinResult{"middle", msg, err}
	}, nil); err != nil {
		t.Fatal(err)
	}

	k.Tick()
	k.Tick()
	k.Yield()

	ok := 0
	for i := 0; i < 2; i++ {
		r := <-results
		switch {
		case r.err == nil:
			ok++
			if r.who != "joiner" || r.msg != 7 {
				t.Fatalf("join won by %s with %d, want joiner with 7", r.who, r.msg)
			}
		case r.err != ErrAlreadyJoined:
			t.Fatalf("%s join err = %v, want ErrAlreadyJoined", r.who, r.err)
		}
	}
	if ok != 1 {
		t.Fatalf("joins succeeded = %d, want exactly 1", ok)
	}
}

func TestSuspendOccupiedReferenceRefused(t *testing.T) {
	k := New()
	var ref ThreadRef
	var got Msg

	tp, err := k.CreateThread(workspace(), HighPrio, func(any) {
		got = k.Suspend(&ref)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// The slot is taken by the parked thread; further suspends are
	// refused without blocking and without disturbing it.
	if msg := k.Suspend(&ref); msg != MsgReset {
		t.Fatalf("second Suspend = %d, want MsgReset", msg)
	}
	if msg := k.SuspendTimeout(&ref, 5); msg != MsgReset {
		t.Fatalf("second SuspendTimeout = %d, want MsgReset", msg)
	}

	k.Resume(&ref, 5)
	if _, err := k.Wait(tp); err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Fatalf("parked thread resumed with %d, want 5", got)
	}
}

func TestWaitSecondJoinerRejected(t *testing.T) {
	k := New()
	target, err := k.CreateThread(workspace(), NormalPrio, func(any) {
		k.Sleep(5)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var joinMsg Msg
	joinErrs := make(chan error, 1)
	joiner, err := k.CreateThread(workspace(), HighPrio, func(any) {
		msg, err := k.Wait(target)
		joinMsg = msg
		joinErrs <- err
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// The first joiner is parked on the target; a second join attempt
	// is a usage error.
	if _, err := k.Wait(target); err != ErrAlreadyJoined {
		t.Fatalf("second join err = %v, want ErrAlreadyJoined", err)
	}

	// Run out the target's sleep, then yield so it can exit and
	// release its joiner.
	for i := 0; i < 5; i++ {
		k.Tick()
	}
	k.Yield()

	if err := <-joinErrs; err != nil {
		t.Fatal(err)
	}
	if joinMsg != MsgOK {
		t.Fatalf("join msg = %d, want MsgOK", joinMsg)
	}
	if _, err := k.Wait(joiner); err != nil {
		t.Fatal(err)
	}
}

func TestSyscallABI(t *testing.T) {
	abi := SyscallABI()
	if abi.Revision != ABIRevision {
		t.Fatalf("revision = %d, want %d", abi.Revision, ABIRevision)
	}
	if abi.TickFrequency != TickFrequency {
		t.Fatalf("tick frequency = %d, want %d", abi.TickFrequency, TickFrequency)
	}
	if abi.Version == "" {
		t.Fatal("empty version")
	}
}
