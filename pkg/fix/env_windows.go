//go:build windows

package fix

import (
	"log"

	"godeaterfix/pkg/hook"
	"godeaterfix/pkg/module"
)

// NewEnv resolves the host module and binds the live hook installer. If the
// module cannot be resolved no fix can install, so the error is surfaced and
// the caller skips all fixes.
func NewEnv(logger *log.Logger) (*Env, error) {
	info, err := module.Current()
	if err != nil {
		return nil, err
	}
	logger.Printf("module name: %s", info.Name)
	logger.Printf("module path: %s", info.Path)
	logger.Printf("module addr: 0x%x (%d bytes)", info.Base, info.Size)

	return &Env{
		Log:  logger,
		Code: info.Bytes(),
		Base: info.Base,
		Install: func(addr uintptr, cb hook.Callback) error {
			_, err := hook.Install(addr, cb)
			return err
		},
	}, nil
}
