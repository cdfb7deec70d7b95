package assembler

import (
	"strconv"
	"strings"

	"github.com/mmn14/asm15/asmerr"
	"github.com/mmn14/asm15/encode"
	"github.com/mmn14/asm15/image"
	"github.com/mmn14/asm15/lexer"
)

// operand is a parsed, not-yet-validated operand token.
type operand struct {
	mode     encode.Mode
	register int    // valid when mode is IndirectRegister or DirectRegister
	imm      int    // valid when mode is Immediate
	symbol   string // valid when mode is Direct
}

// parseOperand classifies a single operand word (§3/§6's operand
// grammar) and parses its payload.
func parseOperand(word string, pos asmerr.Position) (operand, *asmerr.Error) {
	switch {
	case strings.HasPrefix(word, "#"):
		n, err := parseSignedInt(word[1:], pos)
		if err != nil {
			return operand{}, err
		}
		if n < -4095 || n > 4095 {
			return operand{}, asmerr.New(pos, asmerr.NumberOutOfRange,
				"immediate value out of range [-4095, 4095]: "+word)
		}
		return operand{mode: encode.Immediate, imm: n}, nil

	case strings.HasPrefix(word, "*"):
		reg := word[1:]
		if !lexer.IsRegister(reg) {
			return operand{}, asmerr.New(pos, asmerr.BadRegister, "bad register in indirect operand: "+word)
		}
		n, _ := lexer.RegisterNumber(reg)
		return operand{mode: encode.IndirectRegister, register: n}, nil

	case lexer.IsRegister(word):
		n, _ := lexer.RegisterNumber(word)
		return operand{mode: encode.DirectRegister, register: n}, nil

	case lexer.IsIdentifier(word) && !lexer.IsReserved(word):
		return operand{mode: encode.Direct, symbol: word}, nil

	default:
		return operand{}, asmerr.New(pos, asmerr.IllegalAddressingMode, "unrecognized operand: "+word)
	}
}

// parseSignedInt parses a decimal integer with an optional leading
// sign, as used by immediate operands and `.data` arguments.
func parseSignedInt(s string, pos asmerr.Position) (int, *asmerr.Error) {
	if s == "" {
		return 0, asmerr.New(pos, asmerr.BadNumber, "empty number")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, asmerr.New(pos, asmerr.BadNumber, "bad number: "+s)
	}
	return n, nil
}

// appendOperandWord appends the operand word(s) for a single,
// standalone operand (not part of a compressed register pair).
func (a *Assembler) appendOperandWord(op operand, isTarget bool, pos asmerr.Position) {
	switch op.mode {
	case encode.Immediate:
		a.Instr.Append(encode.ImmediateWord(op.imm))
	case encode.Direct:
		idx := a.Instr.Append(image.Word(0))
		a.Instr.MarkPlaceholder(idx, op.symbol, pos)
	case encode.IndirectRegister, encode.DirectRegister:
		a.Instr.Append(encode.RegisterWord(op.register, isTarget))
	}
}
