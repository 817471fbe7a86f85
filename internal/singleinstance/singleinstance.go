// Package singleinstance keeps a second autoclick from starting in the same
// desktop session. Two instances would each install a keyboard hook and the
// toggle key would flip both.
package singleinstance

import (
	"errors"
	"os"
	"os/user"
	"strings"
)

// ErrAlreadyRunning is returned by TryLock when another instance holds the lock.
var ErrAlreadyRunning = errors.New("singleinstance: autoclick is already running")

const namePrefix = `Local\autoclick-`

// DefaultMutexName returns the per-user lock name.
func DefaultMutexName() string {
	name := strings.TrimSpace(os.Getenv("USERNAME"))
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	return namePrefix + sanitize(name)
}

// sanitize keeps ASCII letters and digits; everything else becomes '_'.
// Backslashes are not allowed in kernel object names after the namespace.
func sanitize(s string) string {
	if s == "" {
		return "default"
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
