package main

import (
	"fmt"
)

type bits32 uint32

func (v bits32) String() string {
	return fmt.Sprintf("0x%08x", uint32(v))
}

// atBit returns a placement putting a small field value at a fixed bit
// offset within an instruction word.
func atBit(shift uint) func(uint32) bits32 {
	return func(v uint32) bits32 {
		return bits32(v) << shift
	}
}
