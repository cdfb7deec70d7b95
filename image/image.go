// Package image implements the ordered Data Image and Instruction Image
// of §4.4/§4.5: append-only word sequences keyed by position, replacing
// the source's linked lists (§9).
package image

import "github.com/mmn14/asm15/asmerr"

// Word is a 15-bit machine word. Only the low 15 bits are meaningful.
type Word uint16

// WordMask keeps a value to the 15 bits the machine understands.
const WordMask = 0x7FFF

// Data is the ordered sequence of words produced by `.data` and
// `.string` (§4.4). Its length after pass one is DC_final.
type Data struct {
	Words []Word
}

// Append appends v masked to 15 bits and returns the DC value it was
// appended at (i.e. the length before appending).
func (d *Data) Append(v int) int {
	before := len(d.Words)
	d.Words = append(d.Words, Word(v)&WordMask)
	return before
}

func (d *Data) Len() int {
	return len(d.Words)
}

// Placeholder marks an instruction-image word whose payload is deferred
// to pass two for symbol resolution (every mode-1 operand word, per
// §4.6: resolution is centralized in pass two rather than split between
// passes).
type Placeholder struct {
	Index  int             // position in Instructions.Words
	Symbol string          // the identifier to resolve
	Pos    asmerr.Position // source position, for error reporting
}

// Instructions is the ordered sequence of words produced by encoding
// instructions (§4.5/§4.6). Some words start as placeholders.
type Instructions struct {
	Words        []Word
	Placeholders []Placeholder
}

// Append reserves the next word, returning its index (the IC value it
// occupies, relative to 0; callers add 100 for the final address).
func (ii *Instructions) Append(w Word) int {
	index := len(ii.Words)
	ii.Words = append(ii.Words, w)
	return index
}

// MarkPlaceholder records that the word at index still needs symbol
// resolution in pass two.
func (ii *Instructions) MarkPlaceholder(index int, symbol string, pos asmerr.Position) {
	ii.Placeholders = append(ii.Placeholders, Placeholder{Index: index, Symbol: symbol, Pos: pos})
}

// Resolve overwrites the word at index with its final payload.
func (ii *Instructions) Resolve(index int, w Word) {
	ii.Words[index] = w
}

func (ii *Instructions) Len() int {
	return len(ii.Words)
}

// Memory concatenates the instruction image then the data image,
// loaded starting at base (§4.6: base is always 100). The returned
// slice's index 0 corresponds to address base.
func Memory(instr *Instructions, data *Data) []Word {
	out := make([]Word, 0, len(instr.Words)+len(data.Words))
	out = append(out, instr.Words...)
	out = append(out, data.Words...)
	return out
}
