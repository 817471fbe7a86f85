//go:build !windows

package singleinstance

import "errors"

// Lock is a no-op outside Windows; gohook refuses a second session in the
// same process, and other processes are not tracked.
type Lock struct{}

// TryLock validates name and always succeeds.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("singleinstance: mutex name is required")
	}
	return &Lock{}, nil
}

func (l *Lock) Release() error { return nil }
