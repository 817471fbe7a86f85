//go:build windows

package singleinstance

import (
	"errors"
	"testing"
)

func TestSecondLockFails(t *testing.T) {
	name := namePrefix + "test-second"
	first, err := TryLock(name)
	if err != nil {
		t.Fatalf("first TryLock() error = %v", err)
	}
	defer first.Release()

	second, err := TryLock(name)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second TryLock() error = %v, want ErrAlreadyRunning", err)
	}
	if second != nil {
		t.Fatal("second TryLock() returned a lock")
	}
}

func TestLockReacquirableAfterRelease(t *testing.T) {
	name := namePrefix + "test-reacquire"
	first, err := TryLock(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Release(); err != nil {
		t.Fatal(err)
	}
	second, err := TryLock(name)
	if err != nil {
		t.Fatalf("TryLock() after Release error = %v", err)
	}
	_ = second.Release()
}
