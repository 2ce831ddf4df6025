package main

import (
	"fmt"
	"regexp"
	"strconv"
)

// An encodeRule recognizes one textual form of an instruction and produces
// its machine-code word. The pattern's capture groups line up one-to-one
// with the operands slice.
type encodeRule struct {
	name     string
	pattern  *regexp.Regexp
	base     bits32
	operands []operandField
}

// An operandField merges one captured operand value into the instruction
// word. max is the largest value the field can hold; the patterns cannot
// normally capture a larger number, so exceeding it means the pattern and
// the field definition have drifted out of sync.
type operandField struct {
	max   uint32
	place func(v uint32) bits32
}

// laneGroup splits the 4-element group selector into the L and H bits of
// the by-element encoding.
func laneGroup(g uint32) bits32 {
	return bits32(g&1)<<21 | bits32(g>>1&1)<<11
}

var vectorOperands = []operandField{
	{31, atBit(0)},  // accumulator
	{31, atBit(5)},  // lhs
	{31, atBit(16)}, // rhs
}

var elementOperands = []operandField{
	{31, atBit(0)},  // accumulator
	{31, atBit(5)},  // lhs
	{31, atBit(16)}, // rhs
	{3, laneGroup},
}

// The supported instruction forms, in priority order. At most one rule is
// applied per line, so the vector forms must come before the by-element
// forms that share a mnemonic.
var encodeRules = []*encodeRule{
	{
		name:     "udot (vector)",
		pattern:  regexp.MustCompile(`\budot[ ]+v([0-9]+)[ ]*\.[ ]*4s[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*16b[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*16b`),
		base:     0x6e809400,
		operands: vectorOperands,
	},
	{
		name:     "udot (by element)",
		pattern:  regexp.MustCompile(`\budot[ ]+v([0-9]+)[ ]*\.[ ]*4s[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*16b[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*4b[ ]*\[([0-9])\]`),
		base:     0x6f80e000,
		operands: elementOperands,
	},
	{
		name:     "sdot (vector)",
		pattern:  regexp.MustCompile(`\bsdot[ ]+v([0-9]+)[ ]*\.[ ]*4s[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*16b[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*16b`),
		base:     0x4e809400,
		operands: vectorOperands,
	},
	{
		name:     "sdot (by element)",
		pattern:  regexp.MustCompile(`\bsdot[ ]+v([0-9]+)[ ]*\.[ ]*4s[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*16b[ ]*,[ ]*v([0-9]+)[ ]*\.[ ]*4b[ ]*\[([0-9])\]`),
		base:     0x4f80e000,
		operands: elementOperands,
	},
}

// tryMatch tests line against the rule. It returns the machine-code word
// and the matched substring, or (0, line) if the rule does not apply. The
// base words all have fixed high-order bits set, so a successful match can
// never produce zero.
func (r *encodeRule) tryMatch(line string) (bits32, string) {
	m := r.pattern.FindStringSubmatch(line)
	if m == nil {
		return 0, line
	}

	word := r.base
	for i, f := range r.operands {
		v, err := strconv.ParseUint(m[i+1], 10, 32)
		if err != nil || uint32(v) > f.max {
			panic(fmt.Sprintf("%s: operand %d value %q out of range in %q", r.name, i, m[i+1], m[0]))
		}
		word |= f.place(uint32(v))
	}
	return word, m[0]
}

// encode tries each rule in priority order against line and stops at the
// first one that matches.
func encode(line string) (bits32, string) {
	for _, r := range encodeRules {
		if word, match := r.tryMatch(line); word != 0 {
			return word, match
		}
	}
	return 0, line
}

var existingEncodingPattern = regexp.MustCompile(`\.word (0x[0-9a-f]+)`)

// readExistingEncoding extracts the value of a .word directive already
// present on the line, independently of whether any rule matches the line.
// It returns zero when no directive is present.
func readExistingEncoding(line string) bits32 {
	m := existingEncodingPattern.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseUint(m[1], 0, 32)
	if err != nil {
		return 0
	}
	return bits32(v)
}
