package cont

import (
	"errors"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStartIsLazy(t *testing.T) {
	ran := false

	k := Start(func(v int) (int, error) {
		ran = true
		return v * 2, nil
	}, func(int, error) {
		t.Error("stopped computation completed")
	})

	if ran {
		t.Fatal("body ran before the continuation was resumed")
	}
	k.Stop()

	if !k.Resumed() {
		t.Error("stopped continuation should be consumed")
	}
}

func TestStartSuspendRoundTrip(t *testing.T) {
	got, err := Suspend(func(caller *Continuation[int]) error {
		k := Start(func(v int) (int, error) {
			return v + 1, nil
		}, func(res int, err error) {
			if err != nil {
				caller.Fail(err)
			} else {
				caller.Resume(res)
			}
		})
		k.Resume(41)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("wrong result: want=42 got=%d", got)
	}
}

func TestSuspendBlockError(t *testing.T) {
	errBlock := errors.New("refused")
	_, err := Suspend(func(*Continuation[string]) error { return errBlock })
	if !errors.Is(err, errBlock) {
		t.Errorf("wrong error: want=%v got=%v", errBlock, err)
	}
}

func TestResumeTwicePanics(t *testing.T) {
	k := newContinuation[int]()
	k.Resume(1)

	defer func() {
		if r := recover(); r != ErrResumed {
			t.Errorf("wrong panic value: want=%v got=%v", ErrResumed, r)
		}
	}()
	k.Resume(2)
}

func TestFailReachesSuspendedParty(t *testing.T) {
	errBoom := errors.New("boom")
	_, err := Suspend(func(k *Continuation[int]) error {
		k.Fail(errBoom)
		return nil
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("wrong error: want=%v got=%v", errBoom, err)
	}
}

func TestPanicIsReported(t *testing.T) {
	_, err := Suspend(func(caller *Continuation[struct{}]) error {
		k := Start(func(struct{}) (struct{}, error) {
			panic("oops")
		}, func(_ struct{}, err error) {
			caller.Fail(err)
		})
		k.Resume(struct{}{})
		return nil
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *PanicError, got %T: %v", err, err)
	}
	if pe.Value != "oops" {
		t.Errorf("wrong panic value: %v", pe.Value)
	}
	if len(pe.Stack) == 0 {
		t.Error("missing stack trace")
	}
}

func TestStopUnwindsParkedGoroutine(t *testing.T) {
	var parked *Continuation[int]
	deferred := false
	completed := make(chan error, 1)

	_, err := Suspend(func(caller *Continuation[error]) error {
		k := Start(func(struct{}) (struct{}, error) {
			defer func() { deferred = true }()
			Suspend(func(self *Continuation[int]) error {
				parked = self
				caller.Resume(nil)
				return nil
			})
			t.Error("stopped continuation returned from Suspend")
			return struct{}{}, nil
		}, func(_ struct{}, err error) {
			completed <- err
		})
		k.Resume(struct{}{})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	parked.Stop()

	if err := <-completed; !errors.Is(err, ErrExited) {
		t.Errorf("wrong completion error: want=%v got=%v", ErrExited, err)
	}
	if !deferred {
		t.Error("deferred calls did not run")
	}
}
