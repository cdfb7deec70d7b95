package assembler

import (
	"fmt"
	"strings"

	"github.com/mmn14/asm15/asmerr"
	"github.com/mmn14/asm15/encode"
	"github.com/mmn14/asm15/lexer"
	"github.com/mmn14/asm15/symtab"
)

// firstPass drives the lexer, symbol table, and both images over the
// pre-processed lines (§4.5). It never looks ahead or behind a line.
func (a *Assembler) firstPass(lines []string) {
	for i, raw := range lines {
		pos := asmerr.Position{Filename: a.Filename, Line: i + 1}

		if lexer.IsBlank(raw) || lexer.IsComment(raw) {
			continue
		}

		line, err := lexer.Split(raw, pos)
		if err != nil {
			a.Errors.Add(err)
			continue
		}
		if len(line.Words) == 0 {
			if line.HasLabel {
				a.Errors.Add(asmerr.New(pos, asmerr.UnknownMnemonic, "label with no mnemonic or directive"))
			}
			continue
		}

		if lexer.IsDirective(line.Words[0]) {
			a.processDirective(line, pos)
		} else {
			a.processInstruction(line, pos)
		}

		if a.ICFinal()+a.DCFinal() > MaxMemoryWords-LoadOrigin {
			a.Errors.Add(asmerr.New(pos, asmerr.MemoryImageOverflow, "memory image overflow"))
		}
	}
}

func (a *Assembler) processDirective(line *lexer.Line, pos asmerr.Position) {
	switch line.Words[0] {
	case ".data":
		a.processData(line, pos)
	case ".string":
		a.processStringDirective(line, pos)
	case ".entry":
		a.processEntry(line, pos)
	case ".extern":
		a.processExtern(line, pos)
	}
}

func (a *Assembler) processData(line *lexer.Line, pos asmerr.Position) {
	args := line.Words[1:]
	if len(args) == 0 {
		a.Errors.Add(asmerr.New(pos, asmerr.ArityMismatch, ".data requires at least one value"))
		return
	}

	if line.HasLabel {
		a.defineLabel(line.Label, a.Data.Len(), symtab.Data, pos)
	}

	for _, tok := range args {
		n, err := parseSignedInt(tok, pos)
		if err != nil {
			a.Errors.Add(err)
			continue
		}
		if n < -16384 || n > 16383 {
			a.Errors.Add(asmerr.New(pos, asmerr.NumberOutOfRange,
				"data value out of range [-16384, 16383]: "+tok))
			continue
		}
		a.Data.Append(n)
	}
}

func (a *Assembler) processStringDirective(line *lexer.Line, pos asmerr.Position) {
	content, err := parseStringLiteral(line.Rest, pos)
	if err != nil {
		a.Errors.Add(err)
		return
	}
	if line.HasLabel {
		a.defineLabel(line.Label, a.Data.Len(), symtab.Data, pos)
	}
	for _, r := range content {
		a.Data.Append(int(r))
	}
	a.Data.Append(0)
}

func (a *Assembler) processEntry(line *lexer.Line, pos asmerr.Position) {
	if line.HasLabel {
		a.Errors.AddNotice(&asmerr.Notice{Pos: pos, Message: "label before .entry is ignored"})
	}
	args := line.Words[1:]
	switch {
	case len(args) == 0:
		a.Errors.Add(asmerr.New(pos, asmerr.ArityMismatch, ".entry requires an identifier"))
	case len(args) > 1:
		a.Errors.Add(asmerr.New(pos, asmerr.ExtraneousTokens, "extraneous tokens after .entry"))
	default:
		a.entries = append(a.entries, entryDecl{name: args[0], pos: pos})
	}
}

func (a *Assembler) processExtern(line *lexer.Line, pos asmerr.Position) {
	if line.HasLabel {
		a.Errors.AddNotice(&asmerr.Notice{Pos: pos, Message: "label before .extern is ignored"})
	}
	args := line.Words[1:]
	if len(args) != 1 {
		a.Errors.Add(asmerr.New(pos, asmerr.ArityMismatch, ".extern requires exactly one identifier"))
		return
	}
	name := args[0]
	if err := a.validateLabelName(name, pos); err != nil {
		a.Errors.Add(err)
		return
	}
	if err := a.Symbols.Insert(name, 0, symtab.External, pos); err != nil {
		a.Errors.Add(err)
	}
}

func (a *Assembler) processInstruction(line *lexer.Line, pos asmerr.Position) {
	mnemonic := line.Words[0]
	spec, ok := encode.Lookup(mnemonic)
	if !ok {
		a.Errors.Add(asmerr.New(pos, asmerr.UnknownMnemonic, "unknown mnemonic: "+mnemonic))
		return
	}

	if line.HasLabel {
		a.defineLabel(line.Label, a.Instr.Len()+LoadOrigin, symtab.Code, pos)
	}

	args := line.Words[1:]
	hasSource, hasTarget := spec.HasSource(), spec.HasTarget()
	expected := 0
	if hasSource {
		expected++
	}
	if hasTarget {
		expected++
	}
	if len(args) != expected {
		a.Errors.Add(asmerr.New(pos, asmerr.ArityMismatch,
			fmt.Sprintf("%s expects %d operand(s), got %d", mnemonic, expected, len(args))))
		return
	}

	var source, target operand
	switch {
	case hasSource && hasTarget:
		s, err := parseOperand(args[0], pos)
		if err != nil {
			a.Errors.Add(err)
			return
		}
		t, err := parseOperand(args[1], pos)
		if err != nil {
			a.Errors.Add(err)
			return
		}
		source, target = s, t
	case hasTarget:
		t, err := parseOperand(args[0], pos)
		if err != nil {
			a.Errors.Add(err)
			return
		}
		target = t
	case hasSource:
		s, err := parseOperand(args[0], pos)
		if err != nil {
			a.Errors.Add(err)
			return
		}
		source = s
	}

	if hasSource && !spec.AllowsSource(source.mode) {
		a.Errors.Add(asmerr.New(pos, asmerr.IllegalAddressingMode,
			fmt.Sprintf("%s: illegal source addressing mode", mnemonic)))
		return
	}
	if hasTarget && !spec.AllowsTarget(target.mode) {
		a.Errors.Add(asmerr.New(pos, asmerr.IllegalAddressingMode,
			fmt.Sprintf("%s: illegal target addressing mode", mnemonic)))
		return
	}

	a.Instr.Append(encode.InfoWord(spec.Opcode, hasSource, source.mode, hasTarget, target.mode))

	if hasSource && hasTarget && encode.IsRegisterMode(source.mode) && encode.IsRegisterMode(target.mode) {
		a.Instr.Append(encode.TwoRegisterWord(source.register, target.register))
		return
	}
	if hasSource {
		a.appendOperandWord(source, false, pos)
	}
	if hasTarget {
		a.appendOperandWord(target, true, pos)
	}
}

func (a *Assembler) defineLabel(name string, value int, kind symtab.Kind, pos asmerr.Position) {
	if err := a.validateLabelName(name, pos); err != nil {
		a.Errors.Add(err)
		return
	}
	if err := a.Symbols.Insert(name, value, kind, pos); err != nil {
		a.Errors.Add(err)
	}
}

func (a *Assembler) validateLabelName(name string, pos asmerr.Position) *asmerr.Error {
	if len(name) > lexer.MaxIdentifierLength {
		return asmerr.New(pos, asmerr.LabelTooLong, "label exceeds 31 characters: "+name)
	}
	if !lexer.IsIdentifier(name) {
		return asmerr.New(pos, asmerr.InvalidLabelName, "invalid identifier: "+name)
	}
	if lexer.IsReserved(name) {
		return asmerr.New(pos, asmerr.InvalidLabelName, "identifier collides with a reserved word: "+name)
	}
	if a.Macros.IsDefined(name) {
		return asmerr.New(pos, asmerr.InvalidLabelName, "identifier collides with a macro name: "+name)
	}
	return nil
}

// parseStringLiteral extracts the quoted content of a `.string` line's
// remainder (the raw text, so embedded commas survive comma
// normalization untouched).
func parseStringLiteral(rest string, pos asmerr.Position) (string, *asmerr.Error) {
	afterKeyword := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ".string"))
	if afterKeyword == "" || afterKeyword[0] != '"' {
		return "", asmerr.New(pos, asmerr.UnterminatedString, ".string requires a quoted string")
	}
	body := afterKeyword[1:]
	end := strings.IndexByte(body, '"')
	if end < 0 {
		return "", asmerr.New(pos, asmerr.UnterminatedString, "unterminated string")
	}
	content := body[:end]
	trailing := strings.TrimSpace(body[end+1:])
	if trailing != "" {
		return "", asmerr.New(pos, asmerr.ExtraneousTokens, "extraneous tokens after .string: "+trailing)
	}
	return content, nil
}
