// Command asm15 is the reference CLI collaborator of §6: it treats
// each argument as a file stem, reads `<stem>.as`, and on success
// writes `<stem>.ob` and conditionally `<stem>.ent`/`<stem>.ext`.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/mmn14/asm15/assembler"
	"github.com/mmn14/asm15/config"
	"github.com/mmn14/asm15/emitter"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		checkOnly   = flag.Bool("check", false, "Run the pipeline and report errors without writing output files")
		configPath  = flag.String("config", "", "Path to a config file (default: platform config directory)")
		dumpSymbols = flag.Bool("dump-symbols", false, "Print the symbol table after a successful assembly")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("asm15 %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm15: %v\n", err)
		os.Exit(1)
	}

	stems := flag.Args()
	succeeded := 0
	fatal := false

	for _, stem := range stems {
		if assembleStem(stem, cfg, *checkOnly, *dumpSymbols) {
			succeeded++
		} else if _, statErr := os.Stat(stem + ".as"); statErr != nil {
			fatal = true
		}
	}

	if len(stems) > 0 && succeeded == 0 && fatal {
		os.Exit(1)
	}
	os.Exit(0)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// assembleStem runs the pipeline for one file stem and reports
// diagnostics to stderr. It returns whether the stem assembled
// without error.
func assembleStem(stem string, cfg *config.Config, checkOnly, dump bool) bool {
	source, err := os.ReadFile(stem + ".as")
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm15: %s: %v\n", stem, err)
		return false
	}

	a := assembler.New(stem + ".as")
	ok := a.Assemble(string(source))

	if len(a.Errors.Notices) > 0 {
		fmt.Fprint(os.Stderr, a.Errors.NoticeText())
	}
	if !ok {
		fmt.Fprint(os.Stderr, colorize(a.Errors.Error(), cfg.Display.ColorOutput))
		return false
	}

	if dump {
		printSymbols(a)
	}

	if checkOnly {
		return true
	}

	if writeErr := emitter.WriteArtifacts(a, stem); writeErr != nil {
		fmt.Fprint(os.Stderr, colorize("asm15: "+writeErr.Error()+"\n", cfg.Display.ColorOutput))
		return false
	}

	return true
}

func colorize(s string, enabled bool) string {
	if !enabled || s == "" {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func printSymbols(a *assembler.Assembler) {
	symbols := a.Symbols.All()
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Name < symbols[j].Name })
	for _, s := range symbols {
		fmt.Printf("%s %d %s\n", s.Name, s.Value, s.Kind)
	}
}
