package fix

import (
	"log"

	"godeaterfix/pkg/hook"
	"godeaterfix/pkg/sig"
)

// Controller is one signature-based fix: resolve the pattern against the
// host module, install the callback at the resolved address. A controller
// whose flag is false never installs and never touches memory.
type Controller struct {
	Name     string
	Enabled  bool
	Pattern  sig.Pattern
	Callback hook.Callback
}

// Env binds the controllers to a concrete host module and installer. Tests
// substitute the Install function; the real one is wired by NewEnv.
type Env struct {
	Log     *log.Logger
	Code    []byte
	Base    uintptr
	Install func(addr uintptr, cb hook.Callback) error
}

// Apply resolves and installs each controller in order. A failed resolution
// or installation skips only the affected controller; the rest proceed.
func (e *Env) Apply(ctrls ...*Controller) {
	for _, c := range ctrls {
		if !c.Enabled {
			e.Log.Printf("%s: disabled", c.Name)
			continue
		}
		off, ok := c.Pattern.Find(e.Code)
		if !ok {
			e.Log.Printf("%s: signature %q not found", c.Name, c.Pattern.String())
			continue
		}
		addr := e.Base + uintptr(off)
		if err := e.Install(addr, c.Callback); err != nil {
			e.Log.Printf("%s: install at %#x: %v", c.Name, addr, err)
			continue
		}
		e.Log.Printf("%s: hooked at %#x (base+%#x)", c.Name, addr, off)
	}
}
