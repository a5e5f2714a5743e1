//go:build windows

package process

import (
	"fmt"
	"strings"

	gops "github.com/shirou/gopsutil/v3/process"
)

// FindByName returns the PIDs of running processes whose executable name
// matches, ignoring case. Multiple instances of the target are all reported;
// the caller picks one.
func FindByName(name string) ([]uint32, error) {
	procs, err := gops.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var pids []uint32
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(n, name) {
			pids = append(pids, uint32(p.Pid))
		}
	}
	return pids, nil
}
