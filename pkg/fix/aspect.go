package fix

import (
	"godeaterfix/pkg/hook"
	"godeaterfix/pkg/sig"
)

// AspectSig anchors on the movss that stores the live aspect-ratio scalar
// back to memory every frame of a 3D scene.
var AspectSig = sig.MustParse("F3 0F 11 05 ?? ?? ?? ??    E8 ?? ?? ?? ??    89 EC", 0)

// AspectRatio overrides the 16:9 scalar with the configured ratio in the
// register the store reads from, so the stretched value never lands.
func AspectRatio(st *State) *Controller {
	return &Controller{
		Name:    "aspect",
		Enabled: st.Config.MasterEnable,
		Pattern: AspectSig,
		Callback: func(ctx hook.Context) {
			ctx.SetFloatLane(hook.XMM0, 0, st.Config.AspectRatio)
		},
	}
}
