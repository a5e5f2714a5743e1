//go:build windows

package main

import (
	"fmt"

	"godeaterfix/pkg/process"
)

// scanProcess matches every signature against the executable pages of a live
// process, printing each resolved address with the bytes found there.
func scanProcess(name string) error {
	pids, err := process.FindByName(name)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		return fmt.Errorf("no running process named %s", name)
	}
	if len(pids) > 1 {
		fmt.Printf("%d instances of %s, scanning pid %d\n", len(pids), name, pids[0])
	}

	p, err := process.Open(pids[0])
	if err != nil {
		return fmt.Errorf("open pid %d: %w", pids[0], err)
	}
	defer p.Close()
	fmt.Printf("%s  pid %d\n", name, pids[0])

	for _, s := range signatures {
		addrs, err := p.ScanPattern(s.pat, 0, true)
		if err != nil {
			return err
		}
		if len(addrs) == 0 {
			fmt.Printf("%-12s NO MATCH\n", s.name)
			continue
		}
		for _, addr := range addrs {
			if window, err := p.ReadBytes(addr, 16); err == nil {
				fmt.Printf("%-12s %#x  % X\n", s.name, addr, window)
			} else {
				fmt.Printf("%-12s %#x\n", s.name, addr)
			}
		}
		if len(addrs) > 1 {
			fmt.Printf("%-12s WARNING: %d matches, signature is ambiguous\n", s.name, len(addrs))
		}
	}
	return nil
}
