package assembler_test

import (
	"strings"
	"testing"

	"github.com/mmn14/asm15/assembler"
	"github.com/mmn14/asm15/symtab"
)

func TestS1StopAlone(t *testing.T) {
	a := assembler.New("s1.as")
	if !a.Assemble("stop\n") {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.ICFinal() != 1 || a.DCFinal() != 0 {
		t.Errorf("IC=%d DC=%d, want 1, 0", a.ICFinal(), a.DCFinal())
	}
	if a.Instr.Words[0] != 0o74004 {
		t.Errorf("word = %o, want 74004", a.Instr.Words[0])
	}
}

func TestS2ForwardReferenceToDataLabel(t *testing.T) {
	source := "MAIN: mov r3, LEN\nLEN:  .data 6\n"
	a := assembler.New("s2.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.ICFinal() != 3 || a.DCFinal() != 1 {
		t.Errorf("IC=%d DC=%d, want 3, 1", a.ICFinal(), a.DCFinal())
	}
	main, ok := a.Symbols.Lookup("MAIN")
	if !ok || main.Value != 100 {
		t.Errorf("MAIN = %v, want value 100", main)
	}
	lenSym, ok := a.Symbols.Lookup("LEN")
	if !ok || lenSym.Value != 103 || lenSym.Kind != symtab.Data {
		t.Errorf("LEN = %v, want value 103 kind Data", lenSym)
	}
	if a.Data.Words[0] != 6 {
		t.Errorf("data word = %d, want 6", a.Data.Words[0])
	}
}

func TestS3ExternalReference(t *testing.T) {
	source := ".extern X\n      jmp  X\n"
	a := assembler.New("s3.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.ICFinal() != 2 {
		t.Errorf("IC = %d, want 2", a.ICFinal())
	}
	if len(a.Externals) != 1 || a.Externals[0].Name != "X" || a.Externals[0].Address != 101 {
		t.Errorf("externals = %v, want [{X 101}]", a.Externals)
	}
	if len(a.Symbols.Entries()) != 0 {
		t.Error("expected no entry symbols")
	}
}

func TestS4TwoRegisterCompression(t *testing.T) {
	source := "LOOP: cmp  r1, r2\n      bne  LOOP\n      stop\n"
	a := assembler.New("s4.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.ICFinal() != 5 {
		t.Errorf("IC = %d, want 5", a.ICFinal())
	}
}

func TestS5MacroExpansion(t *testing.T) {
	withMacro := "macr AB\nmov r1, r2\nendmacr\nAB\nstop\n"
	inlined := "mov r1, r2\nstop\n"

	a1 := assembler.New("s5a.as")
	if !a1.Assemble(withMacro) {
		t.Fatalf("expected success, errors: %v", a1.Errors.Error())
	}
	a2 := assembler.New("s5b.as")
	if !a2.Assemble(inlined) {
		t.Fatalf("expected success, errors: %v", a2.Errors.Error())
	}
	if a1.ICFinal() != a2.ICFinal() {
		t.Fatalf("IC mismatch: %d vs %d", a1.ICFinal(), a2.ICFinal())
	}
	for i := range a1.Instr.Words {
		if a1.Instr.Words[i] != a2.Instr.Words[i] {
			t.Errorf("word[%d] = %o, want %o", i, a1.Instr.Words[i], a2.Instr.Words[i])
		}
	}
}

func TestS6DuplicateLabel(t *testing.T) {
	source := "X: stop\nX: stop\n"
	a := assembler.New("s6.as")
	if a.Assemble(source) {
		t.Fatal("expected failure on duplicate label")
	}
	if !a.Errors.HasErrors() {
		t.Fatal("expected a recorded error")
	}
}

func TestDataBoundaryValues(t *testing.T) {
	source := ".data 16383, -16384\n"
	a := assembler.New("data_bounds.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.DCFinal() != 2 {
		t.Fatalf("DC = %d, want 2", a.DCFinal())
	}
}

func TestDataOutOfRangeIsError(t *testing.T) {
	source := ".data 16384\n"
	a := assembler.New("data_oor.as")
	if a.Assemble(source) {
		t.Fatal("expected failure for out-of-range .data value")
	}
}

func TestImmediateBoundaryValues(t *testing.T) {
	source := "prn #4095\nprn #-4095\n"
	a := assembler.New("imm_bounds.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
}

func TestImmediateOutOfRangeIsError(t *testing.T) {
	source := "prn #4096\n"
	a := assembler.New("imm_oor.as")
	if a.Assemble(source) {
		t.Fatal("expected failure for out-of-range immediate")
	}
}

func TestExternReferencedFromMultipleSites(t *testing.T) {
	source := ".extern X\njmp X\nbne X\n"
	a := assembler.New("multi_ext.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if len(a.Externals) != 2 {
		t.Fatalf("externals = %v, want 2 entries", a.Externals)
	}
	if a.Externals[0].Name != "X" || a.Externals[1].Name != "X" {
		t.Errorf("externals = %v, want both named X", a.Externals)
	}
}

func TestEntryOnUndefinedSymbolIsError(t *testing.T) {
	source := ".entry GHOST\nstop\n"
	a := assembler.New("entry_undef.as")
	if a.Assemble(source) {
		t.Fatal("expected failure for .entry on undefined symbol")
	}
}

func TestEntrySuccess(t *testing.T) {
	source := "X: stop\n.entry X\n"
	a := assembler.New("entry_ok.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	entries := a.Symbols.Entries()
	if len(entries) != 1 || entries[0].Name != "X" {
		t.Errorf("entries = %v, want [X]", entries)
	}
}

func TestLabelBeforeExternIsNoticeNotError(t *testing.T) {
	source := "L: .extern X\njmp X\n"
	a := assembler.New("label_extern.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if len(a.Errors.Notices) == 0 {
		t.Error("expected a notice for the label before .extern")
	}
}

func TestStringDirective(t *testing.T) {
	source := `MSG: .string "hi"` + "\n"
	a := assembler.New("str.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.DCFinal() != 3 { // 'h', 'i', terminator
		t.Fatalf("DC = %d, want 3", a.DCFinal())
	}
	if a.Data.Words[0] != 'h' || a.Data.Words[1] != 'i' || a.Data.Words[2] != 0 {
		t.Errorf("data words = %v", a.Data.Words)
	}
}

func TestStringWithEmbeddedCommaSurvivesNormalization(t *testing.T) {
	source := `MSG: .string "a,b"` + "\n"
	a := assembler.New("str_comma.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.DCFinal() != 4 { // 'a', ',', 'b', terminator
		t.Fatalf("DC = %d, want 4", a.DCFinal())
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	source := `.string "oops` + "\n"
	a := assembler.New("unterminated.as")
	if a.Assemble(source) {
		t.Fatal("expected failure for unterminated string")
	}
}

func TestArityMismatch(t *testing.T) {
	a := assembler.New("arity.as")
	if a.Assemble("mov r1\n") {
		t.Fatal("expected failure: mov requires two operands")
	}
}

func TestIllegalAddressingMode(t *testing.T) {
	a := assembler.New("mode.as")
	if a.Assemble("lea #5, r1\n") {
		t.Fatal("expected failure: lea does not allow immediate source")
	}
}

func TestMemoryConcatenation(t *testing.T) {
	source := "MAIN: mov r3, LEN\nLEN:  .data 6\n"
	a := assembler.New("mem.as")
	a.Assemble(source)
	mem := a.Memory()
	if len(mem) != a.ICFinal()+a.DCFinal() {
		t.Fatalf("len(mem) = %d, want %d", len(mem), a.ICFinal()+a.DCFinal())
	}
}

func TestBlankAndCommentLinesAreSkipped(t *testing.T) {
	source := "\n; a comment\nstop\n"
	a := assembler.New("blank.as")
	if !a.Assemble(source) {
		t.Fatalf("expected success, errors: %v", a.Errors.Error())
	}
	if a.ICFinal() != 1 {
		t.Errorf("IC = %d, want 1", a.ICFinal())
	}
}

func TestIdempotence(t *testing.T) {
	source := "LOOP: cmp  r1, r2\n      bne  LOOP\n      stop\n"
	a1 := assembler.New("idem1.as")
	a1.Assemble(source)
	a2 := assembler.New("idem2.as")
	a2.Assemble(source)

	m1, m2 := a1.Memory(), a2.Memory()
	if len(m1) != len(m2) {
		t.Fatalf("len mismatch: %d vs %d", len(m1), len(m2))
	}
	for i := range m1 {
		if m1[i] != m2[i] {
			t.Errorf("mem[%d] = %o, want %o", i, m1[i], m2[i])
		}
	}
}

func TestLineTooLongIsSkippedNotFatal(t *testing.T) {
	longLine := "stop" + strings.Repeat(" ", 100)
	source := longLine + "\nstop\n"
	a := assembler.New("toolong.as")
	if a.Assemble(source) {
		t.Fatal("expected failure: the file has a line error")
	}
	if len(a.Errors.Errors) != 1 {
		t.Errorf("errors = %v, want exactly 1", a.Errors.Errors)
	}
}
