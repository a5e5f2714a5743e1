//go:build !windows

package main

import "errors"

func scanProcess(string) error {
	return errors.New("-proc scans a live process and requires windows; use -file")
}
