// Package macro implements the macro table and pre-processor of §4.2:
// unparameterized, verbatim-body macros captured between `macr` and
// `endmacr` and expanded inline wherever their name appears alone on a
// line.
package macro

import (
	"strings"

	"github.com/mmn14/asm15/asmerr"
	"github.com/mmn14/asm15/lexer"
)

// Macro is a verbatim body captured between `macr <name>` and `endmacr`.
type Macro struct {
	Name string
	Body []string
}

// Table maps macro name to its stored body.
type Table struct {
	macros map[string]*Macro
}

func NewTable() *Table {
	return &Table{macros: make(map[string]*Macro)}
}

func (t *Table) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

func (t *Table) IsDefined(name string) bool {
	_, ok := t.macros[name]
	return ok
}

func (t *Table) define(m *Macro) {
	t.macros[m.Name] = m
}

// Expand preprocesses raw source lines: it captures macr/endmacr bodies
// into the table and replaces every invocation line with the stored
// body, in order, producing the intermediate stream pass one consumes.
// filename is used only to build positions for reported errors.
func Expand(lines []string, filename string) ([]string, *Table, *asmerr.List) {
	table := NewTable()
	errs := &asmerr.List{}

	var out []string
	var capturing *Macro

	for i, raw := range lines {
		lineNo := i + 1
		pos := asmerr.Position{Filename: filename, Line: lineNo}

		fields := strings.Fields(raw)

		if capturing != nil {
			if len(fields) == 1 && fields[0] == "endmacr" {
				table.define(capturing)
				capturing = nil
				continue
			}
			if len(fields) > 0 && fields[0] == "macr" {
				errs.Add(asmerr.New(pos, asmerr.MacroRedefinition, "nested macro definition"))
				continue
			}
			capturing.Body = append(capturing.Body, raw)
			continue
		}

		if len(fields) > 0 && fields[0] == "macr" {
			if len(fields) != 2 {
				errs.Add(asmerr.New(pos, asmerr.InvalidLabelName, "macr requires exactly one identifier"))
				continue
			}
			name := fields[1]
			if !lexer.IsIdentifier(name) || lexer.IsReserved(name) {
				errs.Add(asmerr.New(pos, asmerr.InvalidLabelName, "invalid macro name "+name))
				continue
			}
			if table.IsDefined(name) {
				errs.Add(asmerr.New(pos, asmerr.MacroRedefinition, "macro "+name+" already defined"))
				capturing = &Macro{Name: name + "\x00discard"}
				continue
			}
			capturing = &Macro{Name: name}
			continue
		}

		if len(fields) > 0 {
			if fields[0] == "endmacr" {
				errs.Add(asmerr.New(pos, asmerr.InvalidLabelName, "endmacr without matching macr"))
				continue
			}
			if m, ok := table.Lookup(fields[0]); ok {
				if len(fields) != 1 {
					errs.Add(asmerr.New(pos, asmerr.MacroInvocationTrailingTokens,
						"macro invocation "+fields[0]+" has trailing tokens"))
					continue
				}
				out = append(out, m.Body...)
				continue
			}
		}

		out = append(out, raw)
	}

	return out, table, errs
}
