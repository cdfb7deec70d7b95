// Package emitter renders the `.ob`, `.ent`, and `.ext` artifacts in
// the exact file formats of spec §6.
package emitter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mmn14/asm15/assembler"
	"github.com/mmn14/asm15/image"
)

const loadOrigin = assembler.LoadOrigin

// WriteObject writes the object file: a header line with the
// instruction-word and data-word counts, then one line per word with
// its address and octal value.
func WriteObject(w io.Writer, instrCount, dataCount int, memory []image.Word) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", instrCount, dataCount); err != nil {
		return err
	}
	for i, word := range memory {
		addr := loadOrigin + i
		if _, err := fmt.Fprintf(bw, "%04d %05o\n", addr, uint16(word)&image.WordMask); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteEntries writes the entries file: one `<name> <value>` line per
// entry symbol. Call only when len(entries) > 0 — §6 emits this file
// only when at least one entry symbol exists.
func WriteEntries(w io.Writer, entries []EntrySymbol) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s %d\n", e.Name, e.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EntrySymbol is one emitted `.ent` line's source data.
type EntrySymbol struct {
	Name  string
	Value int
}

// WriteExternals writes the externals file: one `<name> <address>`
// line per external reference. Call only when len(refs) > 0.
func WriteExternals(w io.Writer, refs []assembler.ExternalRef) error {
	bw := bufio.NewWriter(w)
	for _, r := range refs {
		if _, err := fmt.Fprintf(bw, "%s %04d\n", r.Name, r.Address); err != nil {
			return err
		}
	}
	return bw.Flush()
}
