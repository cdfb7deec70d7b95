// Package assembler drives the first and second passes of §4.5/§4.6
// over one input file: it owns that file's symbol table, data image,
// and instruction image (§5's per-file lifetime), and reports line
// errors through an asmerr.List.
package assembler

import (
	"strings"

	"github.com/mmn14/asm15/asmerr"
	"github.com/mmn14/asm15/image"
	"github.com/mmn14/asm15/macro"
	"github.com/mmn14/asm15/symtab"
)

// LoadOrigin is the fixed address the memory image is loaded at (§3).
const LoadOrigin = 100

// MaxMemoryWords is the machine's total word count (§3).
const MaxMemoryWords = 4096

// ExternalRef is one `.ext` line: an external symbol referenced from a
// mode-1 operand word, and the address of that word.
type ExternalRef struct {
	Name    string
	Address int
}

type entryDecl struct {
	name string
	pos  asmerr.Position
}

// Assembler holds the tables and images owned by one input file. A new
// Assembler is created per file and discarded after its outputs are
// written or the file is abandoned (§5: "no state crosses files").
type Assembler struct {
	Filename string

	Symbols *symtab.Table
	Macros  *macro.Table
	Data    image.Data
	Instr   image.Instructions
	Errors  asmerr.List

	Externals []ExternalRef

	entries []entryDecl
}

// New creates an Assembler for one input file.
func New(filename string) *Assembler {
	return &Assembler{
		Filename: filename,
		Symbols:  symtab.New(),
	}
}

// Assemble runs the full pipeline (pre-processor, pass one, pass two)
// over source. It reports whether the file assembled without errors;
// on success the Data/Instr images and Symbols table hold the final,
// resolved program ready for emission.
func (a *Assembler) Assemble(source string) bool {
	lines := strings.Split(source, "\n")

	expanded, macros, macroErrs := macro.Expand(lines, a.Filename)
	a.Macros = macros
	a.Errors.Errors = append(a.Errors.Errors, macroErrs.Errors...)
	a.Errors.Notices = append(a.Errors.Notices, macroErrs.Notices...)

	a.firstPass(expanded)
	if a.Errors.HasErrors() {
		return false
	}

	a.secondPass()
	return !a.Errors.HasErrors()
}

// ICFinal is the final instruction counter: the number of instruction
// words reserved across the whole file.
func (a *Assembler) ICFinal() int {
	return a.Instr.Len()
}

// DCFinal is the final data counter.
func (a *Assembler) DCFinal() int {
	return a.Data.Len()
}

// Memory concatenates the instruction and data images, addressed from
// LoadOrigin, per §4.6's final relocation pass.
func (a *Assembler) Memory() []image.Word {
	return image.Memory(&a.Instr, &a.Data)
}
