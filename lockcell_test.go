package txcmap

import "testing"

func TestLockedPointerTryLockAndSet(t *testing.T) {
	var c LockedPointer[int]

	if c.Get() != nil {
		t.Fatal("zero-value LockedPointer should be empty")
	}
	if !c.TryLock() {
		t.Fatal("TryLock on an empty, unlocked cell should succeed")
	}
	v := 42
	c.Set(&v)
	c.Unlock()

	if !c.TryLock() {
		t.Fatal("TryLock after Unlock should succeed")
	}
	if got := c.Get(); got == nil || *got != 42 {
		t.Fatalf("Get() = %v, want pointer to 42", got)
	}
	c.Unlock()
}

func TestLockedPointerTryLockFailsWhileHeld(t *testing.T) {
	var c LockedPointer[int]
	if !c.TryLock() {
		t.Fatal("first TryLock should succeed")
	}
	if c.TryLock() {
		t.Fatal("TryLock while held should fail")
	}
	c.Unlock()
}

func TestLockedPointerDetach(t *testing.T) {
	var c LockedPointer[string]
	c.TryLock()
	s := "hello"
	c.Set(&s)

	got := c.Detach()
	if got == nil || *got != "hello" {
		t.Fatalf("Detach() = %v, want pointer to %q", got, "hello")
	}
	if c.Get() != nil {
		t.Fatal("cell should be empty after Detach")
	}
	if c.IsLocked() {
		t.Fatal("cell should be unlocked after Detach")
	}
	if !c.TryLock() {
		t.Fatal("TryLock after Detach should succeed")
	}
}

func TestLockedPointerUnlockNonHolderPanics(t *testing.T) {
	var c LockedPointer[int]
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic unlocking an unlocked cell")
		}
	}()
	c.Unlock()
}

func TestLockedPointerTransplantPreservesLockedEmptyState(t *testing.T) {
	var src LockedPointer[int]
	src.TryLock() // locked, still empty — mid-construction snapshot

	var dst LockedPointer[int]
	dst.transplantFrom(&src)

	if !dst.IsLocked() {
		t.Fatal("transplantFrom should preserve the locked bit")
	}
	if dst.Get() != nil {
		t.Fatal("transplantFrom should preserve a nil payload")
	}
}
