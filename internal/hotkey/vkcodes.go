package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Windows virtual-key codes for the keys a toggle is usually bound to.
const (
	VKBack       KeyCode = 0x08
	VKTab        KeyCode = 0x09
	VKReturn     KeyCode = 0x0D
	VKPause      KeyCode = 0x13
	VKCapital    KeyCode = 0x14
	VKEscape     KeyCode = 0x1B
	VKSpace      KeyCode = 0x20
	VKPrior      KeyCode = 0x21
	VKNext       KeyCode = 0x22
	VKEnd        KeyCode = 0x23
	VKHome       KeyCode = 0x24
	VKLeft       KeyCode = 0x25
	VKUp         KeyCode = 0x26
	VKRight      KeyCode = 0x27
	VKDown       KeyCode = 0x28
	VKSnapshot   KeyCode = 0x2C
	VKInsert     KeyCode = 0x2D
	VKDelete     KeyCode = 0x2E
	VKLWin       KeyCode = 0x5B
	VKRWin       KeyCode = 0x5C
	VKApps       KeyCode = 0x5D
	VKNumpad0    KeyCode = 0x60
	VKF1         KeyCode = 0x70
	VKNumLock    KeyCode = 0x90
	VKScroll     KeyCode = 0x91
	VKLShift     KeyCode = 0xA0
	VKRShift     KeyCode = 0xA1
	VKLControl   KeyCode = 0xA2
	VKRControl   KeyCode = 0xA3
	VKLMenu      KeyCode = 0xA4
	VKRMenu      KeyCode = 0xA5
	vkFirstDigit KeyCode = 0x30
	vkFirstAlpha KeyCode = 0x41
)

// canonical names first: FormatVirtualKey reports the first name seen.
var virtualKeyNames = []struct {
	name string
	code KeyCode
}{
	{"scrolllock", VKScroll},
	{"rctrl", VKRControl},
	{"lctrl", VKLControl},
	{"pause", VKPause},
	{"rshift", VKRShift},
	{"lshift", VKLShift},
	{"ralt", VKRMenu},
	{"lalt", VKLMenu},
	{"lwin", VKLWin},
	{"rwin", VKRWin},
	{"apps", VKApps},
	{"capslock", VKCapital},
	{"numlock", VKNumLock},
	{"insert", VKInsert},
	{"delete", VKDelete},
	{"home", VKHome},
	{"end", VKEnd},
	{"pageup", VKPrior},
	{"pagedown", VKNext},
	{"printscreen", VKSnapshot},
	{"escape", VKEscape},
	{"space", VKSpace},
	{"tab", VKTab},
	{"enter", VKReturn},
	{"backspace", VKBack},
	{"left", VKLeft},
	{"up", VKUp},
	{"right", VKRight},
	{"down", VKDown},

	// aliases
	{"scroll", VKScroll},
	{"rightctrl", VKRControl},
	{"rcontrol", VKRControl},
	{"leftctrl", VKLControl},
	{"lcontrol", VKLControl},
	{"return", VKReturn},
	{"esc", VKEscape},
	{"ins", VKInsert},
	{"del", VKDelete},
	{"pgup", VKPrior},
	{"pgdn", VKNext},
	{"prtsc", VKSnapshot},
}

var (
	virtualKeyByName = map[string]KeyCode{}
	virtualKeyName   = map[KeyCode]string{}
)

func init() {
	add := func(name string, code KeyCode) {
		virtualKeyByName[name] = code
		if _, ok := virtualKeyName[code]; !ok {
			virtualKeyName[code] = name
		}
	}
	for _, k := range virtualKeyNames {
		add(k.name, k.code)
	}
	for i := KeyCode(0); i < 24; i++ {
		add(fmt.Sprintf("f%d", i+1), VKF1+i)
	}
	for i := KeyCode(0); i < 10; i++ {
		add(strconv.Itoa(int(i)), vkFirstDigit+i)
		add(fmt.Sprintf("numpad%d", i), VKNumpad0+i)
	}
	for c := 'a'; c <= 'z'; c++ {
		add(string(c), vkFirstAlpha+KeyCode(c-'a'))
	}
}

// NormalizeKeyName lowercases name and strips separators so that
// "Scroll Lock", "scroll_lock" and "SCROLLLOCK" compare equal.
func NormalizeKeyName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)
}

// ParseNumericKey parses decimal or 0x-prefixed key codes.
func ParseNumericKey(name string) (KeyCode, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(name), 0, 32)
	if err != nil {
		return 0, false
	}
	return KeyCode(v), true
}

// ParseVirtualKey resolves a key name to a Windows virtual-key code.
// Names not in the table are accepted as numeric codes. Table names win, so
// "1" is the digit key (0x31); raw codes below 10 need hex ("0x01").
func ParseVirtualKey(name string) (KeyCode, error) {
	norm := NormalizeKeyName(name)
	if norm == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownKey)
	}
	if code, ok := virtualKeyByName[norm]; ok {
		return code, nil
	}
	if code, ok := ParseNumericKey(norm); ok && code > 0 && code < 0xFF {
		return code, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// FormatVirtualKey returns the canonical name of a virtual-key code, or
// its hex value.
func FormatVirtualKey(code KeyCode) string {
	if name, ok := virtualKeyName[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint32(code))
}
