package assembler

import (
	"github.com/mmn14/asm15/asmerr"
	"github.com/mmn14/asm15/encode"
	"github.com/mmn14/asm15/symtab"
)

// secondPass resolves entry declarations and placeholder operand words
// against the symbol table as it stands after pass one (§4.6). Pass
// one's output is handed read-mostly to pass two (§5): pass two first
// applies the end-of-pass-one shift to the values of data symbols, and
// beyond that only the placeholder payloads in the instruction image
// and the kind field of entry symbols are mutated here.
func (a *Assembler) secondPass() {
	a.Symbols.ShiftData(a.ICFinal() + LoadOrigin)

	for _, e := range a.entries {
		if err := a.Symbols.MarkEntry(e.name, e.pos); err != nil {
			a.Errors.Add(err)
		}
	}

	for _, p := range a.Instr.Placeholders {
		sym, ok := a.Symbols.Lookup(p.Symbol)
		if !ok {
			a.Errors.Add(asmerr.New(p.Pos, asmerr.UnknownSymbol, "unknown symbol: "+p.Symbol))
			continue
		}
		if sym.Kind == symtab.External {
			a.Instr.Resolve(p.Index, encode.ExternalWord())
			a.Externals = append(a.Externals, ExternalRef{
				Name:    sym.Name,
				Address: LoadOrigin + p.Index,
			})
			continue
		}
		a.Instr.Resolve(p.Index, encode.DirectWord(sym.Value))
	}
}
