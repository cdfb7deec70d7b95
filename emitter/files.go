package emitter

import (
	"fmt"
	"os"

	"github.com/mmn14/asm15/assembler"
	"github.com/mmn14/asm15/asmerr"
)

// WriteArtifacts writes `<stem>.ob`, and conditionally `<stem>.ent` and
// `<stem>.ext`, for a successfully assembled file (§6's CLI contract).
// A create failure is reported as a Fatal asmerr and aborts the
// remaining artifacts for this stem.
func WriteArtifacts(a *assembler.Assembler, stem string) *asmerr.Error {
	memory := a.Memory()
	if err := writeFile(stem+".ob", func(f *os.File) error {
		return WriteObject(f, a.ICFinal(), a.DCFinal(), memory)
	}); err != nil {
		return err
	}

	entries := entrySymbols(a)
	if len(entries) > 0 {
		if err := writeFile(stem+".ent", func(f *os.File) error {
			return WriteEntries(f, entries)
		}); err != nil {
			return err
		}
	}

	if len(a.Externals) > 0 {
		if err := writeFile(stem+".ext", func(f *os.File) error {
			return WriteExternals(f, a.Externals)
		}); err != nil {
			return err
		}
	}

	return nil
}

func entrySymbols(a *assembler.Assembler) []EntrySymbol {
	var out []EntrySymbol
	for _, s := range a.Symbols.Entries() {
		out = append(out, EntrySymbol{Name: s.Name, Value: s.Value})
	}
	return out
}

func writeFile(path string, write func(*os.File) error) *asmerr.Error {
	f, err := os.Create(path)
	if err != nil {
		return asmerr.New(asmerr.Position{Filename: path}, asmerr.FileIO, fmt.Sprintf("create %s: %v", path, err))
	}
	defer f.Close()

	if err := write(f); err != nil {
		return asmerr.New(asmerr.Position{Filename: path}, asmerr.FileIO, fmt.Sprintf("write %s: %v", path, err))
	}
	return nil
}
