package main

import (
	"fmt"

	"github.com/Binject/debug/pe"
)

// scanFile matches every signature against the code sections of an
// executable on disk and prints each hit as section offset and mapped
// virtual address.
func scanFile(path string) error {
	f, err := pe.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var imageBase uint64
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		imageBase = uint64(oh.ImageBase)
	case *pe.OptionalHeader64:
		imageBase = oh.ImageBase
	}
	fmt.Printf("%s  image base %#x\n", path, imageBase)

	for _, s := range signatures {
		hits := 0
		for _, sec := range f.Sections {
			if sec.Characteristics&pe.IMAGE_SCN_CNT_CODE == 0 {
				continue
			}
			data, err := sec.Data()
			if err != nil {
				return fmt.Errorf("read section %s: %w", sec.Name, err)
			}
			for _, off := range s.pat.FindAll(data, 0) {
				va := imageBase + uint64(sec.VirtualAddress) + uint64(off)
				fmt.Printf("%-12s %s+%#x  va %#x\n", s.name, sec.Name, off, va)
				hits++
			}
		}
		switch hits {
		case 0:
			fmt.Printf("%-12s NO MATCH\n", s.name)
		case 1:
		default:
			fmt.Printf("%-12s WARNING: %d matches, signature is ambiguous\n", s.name, hits)
		}
	}
	return nil
}
