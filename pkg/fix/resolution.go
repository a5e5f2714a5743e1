package fix

import (
	"godeaterfix/pkg/hook"
	"godeaterfix/pkg/sig"
)

// ResolutionSig anchors on the branch and multiply/divide pair feeding the
// render-width register; the adjustment lands on the call that consumes the
// computed width, with the width live in the first float lane.
var ResolutionSig = sig.MustParse("76 ??    F3 0F 59 05 ?? ?? ?? ??    F3 0F 5E 05 ?? ?? ?? ??    E8 ?? ?? ?? ??", 18)

// Resolution expands the render window to the configured width. Movies are
// prerendered 16:9, so while one is streaming the native width must pass
// through untouched or playback stretches.
func Resolution(st *State) *Controller {
	return &Controller{
		Name:    "resolution",
		Enabled: st.Config.MasterEnable,
		Pattern: ResolutionSig,
		Callback: func(ctx hook.Context) {
			if !st.MoviePlaying() {
				ctx.SetFloatLane(hook.XMM0, 0, float32(st.Config.Width))
			}
		},
	}
}
