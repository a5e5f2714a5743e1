package fix

import (
	"godeaterfix/pkg/hook"
	"godeaterfix/pkg/sig"
)

// HudSig anchors on the vectorized load of the UI-transform record, with the
// record's base address live in the accumulator register.
var HudSig = sig.MustParse("F3 0F 6F 00    F3 0F 7F 41 0C    F3 0F 6F 40 10", 0)

// The one transform record this fix may touch carries ±1.0-family floats at
// +0x30 and +0x3C. Only the top byte is compared; the low bits drift across
// records at runtime, so full-float equality misses valid records.
const (
	hudScalar0Mask = 0xBF000000
	hudScalar1Mask = 0x3F000000
)

// ConstrainHud rescales the UI transform so HUD elements render inside the
// centered 16:9 area instead of stretching across the full width.
func ConstrainHud(st *State) *Controller {
	cfg := st.Config
	return &Controller{
		Name:    "hud",
		Enabled: cfg.MasterEnable && cfg.ConstrainHud,
		Pattern: HudSig,
		Callback: func(ctx hook.Context) {
			s0, err := ctx.ReadUint32(hook.RegAX, 0x30)
			if err != nil {
				return
			}
			s1, err := ctx.ReadUint32(hook.RegAX, 0x3C)
			if err != nil {
				return
			}
			if s0&hudScalar0Mask != hudScalar0Mask || s1&hudScalar1Mask != hudScalar1Mask {
				return
			}
			ratio := float32(cfg.NativeWidth) / float32(cfg.Width)
			if err := ctx.WriteFloat32(hook.RegAX, 0x00, (2/float32(cfg.Width))*ratio); err != nil {
				return
			}
			_ = ctx.WriteFloat32(hook.RegAX, 0x30, ratio*-1)
		},
	}
}
