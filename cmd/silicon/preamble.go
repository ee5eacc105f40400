package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/decider"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/diagfmt"
	"github.com/ArquintL/silicon/internal/parser"
	"github.com/ArquintL/silicon/internal/preamble"
	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/theories"
)

var preambleCmd = &cobra.Command{
	Use:   "preamble [dir]",
	Short: "Emit only the theory preamble for a unit",
	Long: `Preamble parses the unit and prints the theory declarations and axioms
its types require (one block per concrete sequence instantiation), without
any function symbols or axioms. Useful for inspecting what the verifier
will hand the prover before function encoding starts.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runPreamble,
}

func runPreamble(cmd *cobra.Command, args []string) error {
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")

	dir, _, err := resolveUnitDir(args)
	if err != nil {
		return err
	}
	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sil") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	fileSet := source.NewFileSetWithBase(dir)
	prog := ast.NewProgram()
	bag := diag.NewBag(maxDiag)
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			return err
		}
		parser.ParseFile(fileSet.Get(fileID), prog, parser.Options{
			Reporter: diag.BagReporter{Bag: bag},
		})
	}
	if bag.HasErrors() {
		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			ShowNotes: true,
		})
		return fmt.Errorf("unit failed to parse")
	}

	var sb strings.Builder
	sink := decider.NewSMTSink(&sb)
	seqs := theories.NewSequencesContributor(preamble.NewReader())
	if err := theories.Contribute(seqs, prog, sink); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), sb.String())
	return nil
}
