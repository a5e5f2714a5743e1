//go:build windows

package config

import (
	"errors"

	"golang.org/x/sys/windows"
)

const (
	smCxScreen = 0
	smCyScreen = 1
)

var procGetSystemMetrics = windows.NewLazySystemDLL("user32.dll").NewProc("GetSystemMetrics")

// Desktop returns the primary display dimensions. Used when the configured
// width or height is zero.
func Desktop() (uint32, uint32, error) {
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	h, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if w == 0 || h == 0 {
		return 0, 0, errors.New("config: GetSystemMetrics returned zero")
	}
	return uint32(w), uint32(h), nil
}
