// Package symtab implements the symbol table of §4.3: a name-to-record
// mapping with stable insertion order, kept for deterministic emission,
// and the pass-one-end relocation shift applied to data symbols.
package symtab

import (
	"fmt"

	"github.com/mmn14/asm15/asmerr"
)

// Kind is the kind of a symbol (§3).
type Kind int

const (
	Code Kind = iota
	Data
	External
	Entry
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Data:
		return "data"
	case External:
		return "external"
	case Entry:
		return "entry"
	default:
		return "unknown"
	}
}

// Symbol is one entry of the table.
type Symbol struct {
	Name  string
	Value int
	Kind  Kind
	Pos   asmerr.Position
}

// Table is a name -> Symbol mapping with stable insertion order.
type Table struct {
	byName map[string]*Symbol
	order  []string
}

func New() *Table {
	return &Table{byName: make(map[string]*Symbol)}
}

// Insert defines a new symbol. It is an error (DuplicateLabel) to
// insert a name already present, regardless of kind.
func (t *Table) Insert(name string, value int, kind Kind, pos asmerr.Position) *asmerr.Error {
	if existing, ok := t.byName[name]; ok {
		return asmerr.New(pos, asmerr.DuplicateLabel,
			fmt.Sprintf("%q already defined at %s", name, existing.Pos))
	}
	t.byName[name] = &Symbol{Name: name, Value: value, Kind: kind, Pos: pos}
	t.order = append(t.order, name)
	return nil
}

// Lookup returns the symbol named name, if any.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// MarkEntry changes an existing symbol's kind to Entry. External
// symbols may never be marked entry (§7 EntryOnExternalOrUndefined);
// neither may a name that doesn't exist yet.
func (t *Table) MarkEntry(name string, pos asmerr.Position) *asmerr.Error {
	s, ok := t.byName[name]
	if !ok {
		return asmerr.New(pos, asmerr.EntryOnExternalOrUndefined,
			fmt.Sprintf(".entry names undefined symbol %q", name))
	}
	if s.Kind == External {
		return asmerr.New(pos, asmerr.EntryOnExternalOrUndefined,
			fmt.Sprintf(".entry names external symbol %q", name))
	}
	s.Kind = Entry
	return nil
}

// ShiftData adds shift to the value of every symbol whose kind is Data.
// Called once, after pass one, with shift = IC_final + 100.
func (t *Table) ShiftData(shift int) {
	for _, name := range t.order {
		s := t.byName[name]
		if s.Kind == Data {
			s.Value += shift
		}
	}
}

// All iterates symbols in insertion order.
func (t *Table) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// Entries returns all symbols of kind Entry, in insertion order.
func (t *Table) Entries() []*Symbol {
	var out []*Symbol
	for _, name := range t.order {
		if s := t.byName[name]; s.Kind == Entry {
			out = append(out, s)
		}
	}
	return out
}
