// Package winhook installs a native WH_KEYBOARD_LL hook through user32.
// Key codes are Windows virtual-key codes.
package winhook

import "github.com/chaz8081/autoclick/internal/hotkey"

// Source is a hotkey.Source backed by SetWindowsHookExW.
type Source struct{}

var _ hotkey.Source = Source{}

// New returns the native Windows source.
func New() Source {
	return Source{}
}

func (Source) Name() string { return "winhook" }

func (Source) ParseKey(name string) (hotkey.KeyCode, error) {
	return hotkey.ParseVirtualKey(name)
}

func (Source) FormatKey(code hotkey.KeyCode) string {
	return hotkey.FormatVirtualKey(code)
}
