// Package encode builds the 15-bit machine words of §3/§4.5: the opcode
// table, per-instruction addressing-mode validation, and the bit
// layouts of the info word and the operand words, including the
// two-register compression rule.
package encode

import "github.com/mmn14/asm15/image"

// ARE bit values. Exactly one is set in any emitted word that carries
// linkage information (info words and resolved operand words).
const (
	EBit = 1 << 0
	RBit = 1 << 1
	ABit = 1 << 2
)

// Bit shifts within a word.
const (
	TargetModeShift = 3  // target addressing one-hot, info word, bits 3-6
	SourceModeShift = 7  // source addressing one-hot, info word, bits 7-10
	OpcodeShift     = 11 // opcode, info word, bits 11-14

	PayloadShift = 3 // operand payload (immediate / direct value), bits 3-14

	TargetRegShift = 3 // standalone/compressed target register, bits 3-5
	SourceRegShift = 6 // standalone/compressed source register, bits 6-8
)

// PayloadMask keeps a value to the 12 payload bits of an operand word.
const PayloadMask = 0xFFF

// Mode is an addressing mode (§3).
type Mode int

const (
	Immediate        Mode = 0
	Direct           Mode = 1
	IndirectRegister Mode = 2
	DirectRegister   Mode = 3
)

// IsRegisterMode reports whether m is one of the two register-holding
// modes eligible for the two-register compression rule.
func IsRegisterMode(m Mode) bool {
	return m == IndirectRegister || m == DirectRegister
}

// Spec describes one opcode's name, index, and permitted operand modes.
// A nil SourceModes/TargetModes means that operand position does not
// exist for this opcode.
type Spec struct {
	Name        string
	Opcode      int
	SourceModes []Mode
	TargetModes []Mode
}

func modeSet(modes ...Mode) []Mode { return modes }

// Table is the fixed 16-entry opcode table of §3/§4.5, indexed by
// opcode value 0..15.
var Table = []Spec{
	{Name: "mov", Opcode: 0, SourceModes: modeSet(0, 1, 2, 3), TargetModes: modeSet(1, 2, 3)},
	{Name: "cmp", Opcode: 1, SourceModes: modeSet(0, 1, 2, 3), TargetModes: modeSet(0, 1, 2, 3)},
	{Name: "add", Opcode: 2, SourceModes: modeSet(0, 1, 2, 3), TargetModes: modeSet(1, 2, 3)},
	{Name: "sub", Opcode: 3, SourceModes: modeSet(0, 1, 2, 3), TargetModes: modeSet(1, 2, 3)},
	{Name: "lea", Opcode: 4, SourceModes: modeSet(1), TargetModes: modeSet(1, 2, 3)},
	{Name: "clr", Opcode: 5, TargetModes: modeSet(1, 2, 3)},
	{Name: "not", Opcode: 6, TargetModes: modeSet(1, 2, 3)},
	{Name: "inc", Opcode: 7, TargetModes: modeSet(1, 2, 3)},
	{Name: "dec", Opcode: 8, TargetModes: modeSet(1, 2, 3)},
	{Name: "jmp", Opcode: 9, TargetModes: modeSet(1, 2)},
	{Name: "bne", Opcode: 10, TargetModes: modeSet(1, 2)},
	{Name: "red", Opcode: 11, TargetModes: modeSet(1, 2, 3)},
	{Name: "prn", Opcode: 12, TargetModes: modeSet(0, 1, 2, 3)},
	{Name: "jsr", Opcode: 13, TargetModes: modeSet(1, 2)},
	{Name: "rts", Opcode: 14},
	{Name: "stop", Opcode: 15},
}

var byName map[string]*Spec

func init() {
	byName = make(map[string]*Spec, len(Table))
	for i := range Table {
		byName[Table[i].Name] = &Table[i]
	}
}

// Lookup returns the Spec for a mnemonic.
func Lookup(name string) (*Spec, bool) {
	s, ok := byName[name]
	return s, ok
}

// HasSource reports whether this opcode takes a source operand.
func (s *Spec) HasSource() bool { return len(s.SourceModes) > 0 }

// HasTarget reports whether this opcode takes a target operand.
func (s *Spec) HasTarget() bool { return len(s.TargetModes) > 0 }

// AllowsSource reports whether m is a legal source mode for s.
func (s *Spec) AllowsSource(m Mode) bool {
	for _, allowed := range s.SourceModes {
		if allowed == m {
			return true
		}
	}
	return false
}

// AllowsTarget reports whether m is a legal target mode for s.
func (s *Spec) AllowsTarget(m Mode) bool {
	for _, allowed := range s.TargetModes {
		if allowed == m {
			return true
		}
	}
	return false
}

// InfoWord builds the first reserved word of an instruction: A=1,
// opcode at bits 11-14, source one-hot at bits 7-10 (if hasSource),
// target one-hot at bits 3-6 (if hasTarget).
func InfoWord(opcode int, hasSource bool, sourceMode Mode, hasTarget bool, targetMode Mode) image.Word {
	w := ABit | (opcode << OpcodeShift)
	if hasSource {
		w |= 1 << (SourceModeShift + int(sourceMode))
	}
	if hasTarget {
		w |= 1 << (TargetModeShift + int(targetMode))
	}
	return image.Word(w)
}

// OperandWordCount returns how many extra words (beyond the info word)
// this instruction's operands reserve, applying the two-register
// compression rule: when both operands are present and both are
// register-mode, they share one word instead of two.
func OperandWordCount(hasSource bool, sourceMode Mode, hasTarget bool, targetMode Mode) int {
	if hasSource && hasTarget && IsRegisterMode(sourceMode) && IsRegisterMode(targetMode) {
		return 1
	}
	n := 0
	if hasSource {
		n++
	}
	if hasTarget {
		n++
	}
	return n
}

// ImmediateWord builds a mode-0 operand word: A=1, signed value at
// bits 3-14. value must already be checked to be within [-4095, 4095]
// by the caller.
func ImmediateWord(value int) image.Word {
	return image.Word(ABit | ((value & PayloadMask) << PayloadShift))
}

// DirectWord builds a resolved mode-1 operand word for a code or data
// symbol: R=1, the symbol's (already-shifted) value at bits 3-14.
func DirectWord(value int) image.Word {
	return image.Word(RBit | ((value & PayloadMask) << PayloadShift))
}

// ExternalWord builds a resolved mode-1 operand word for an external
// symbol: E=1, zero address payload.
func ExternalWord() image.Word {
	return image.Word(EBit)
}

// RegisterWord builds a standalone mode-2/3 operand word (the operand
// position not compressed with its counterpart): A=1, register number
// at bits 3-5 if isTarget, bits 6-8 if source.
func RegisterWord(reg int, isTarget bool) image.Word {
	if isTarget {
		return image.Word(ABit | (reg << TargetRegShift))
	}
	return image.Word(ABit | (reg << SourceRegShift))
}

// TwoRegisterWord builds the single shared operand word used when both
// operands are register-mode: A=1, source register at bits 6-8, target
// register at bits 3-5.
func TwoRegisterWord(sourceReg, targetReg int) image.Word {
	return image.Word(ABit | (sourceReg << SourceRegShift) | (targetReg << TargetRegShift))
}
