package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/diagfmt"
	"github.com/ArquintL/silicon/internal/driver"
	"github.com/ArquintL/silicon/internal/project"
)

var (
	verifyJobs    int
	verifyUI      string
	verifyFormat  string
	verifyNoCache bool
	verifyOut     string
)

func init() {
	verifyCmd.Flags().IntVarP(&verifyJobs, "jobs", "j", 0, "parallel axiomatization workers (0 = number of CPUs)")
	verifyCmd.Flags().StringVar(&verifyUI, "ui", "auto", "interactive progress display (auto|on|off)")
	verifyCmd.Flags().StringVar(&verifyFormat, "format", "pretty", "diagnostic output format (pretty|json)")
	verifyCmd.Flags().BoolVar(&verifyNoCache, "no-cache", false, "ignore and do not update the unit cache")
	verifyCmd.Flags().StringVarP(&verifyOut, "out", "o", "", "write the emitted prover problem to this file")
}

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Axiomatize every function of a unit and emit the prover problem",
	Long: `Verify parses every .sil file of the unit, drives each function through
the axiomatization phases and emits one SMT problem: theory preamble,
function symbols, then axioms in call-graph order.

Without an argument the unit is located via the nearest silicon.toml.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
	colorMode, _ := cmd.Flags().GetString("color")
	applyColorMode(colorMode)

	mode, err := readUIMode(verifyUI)
	if err != nil {
		return err
	}
	if verifyFormat != "pretty" && verifyFormat != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", verifyFormat)
	}

	dir, manifest, err := resolveUnitDir(args)
	if err != nil {
		return err
	}

	opts := driver.Options{MaxDiagnostics: maxDiag, Jobs: verifyJobs}
	if manifest != nil {
		if !cmd.Flags().Changed("jobs") && manifest.Config.Verify.Jobs > 0 {
			opts.Jobs = manifest.Config.Verify.Jobs
		}
		if !cmd.Flags().Changed("max-diagnostics") && manifest.Config.Verify.MaxDiagnostics > 0 {
			opts.MaxDiagnostics = manifest.Config.Verify.MaxDiagnostics
		}
	}
	if !verifyNoCache {
		cache, err := driver.OpenDiskCache("silicon")
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
			}
		} else {
			opts.Cache = cache
		}
	}

	var res *driver.Result
	// JSON-вывод несовместим с TUI: канал прогресса остаётся пустым
	if verifyFormat == "pretty" && shouldUseTUI(mode) {
		res, err = runVerifyWithUI(cmd.Context(), "verifying "+filepath.Base(dir), dir, opts)
	} else {
		res, err = driver.VerifyDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Merge(res.ParseBag)
	for i := range res.Functions {
		bag.Merge(res.Functions[i].Bag)
	}
	bag.Sort()
	bag.Dedup()

	if verifyFormat == "json" {
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(cmd.OutOrStdout(), bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			ShowNotes: true,
		})
	}

	if verifyOut != "" && res.Problem != "" {
		if err := os.WriteFile(verifyOut, []byte(res.Problem), 0o600); err != nil {
			return fmt.Errorf("failed to write problem: %w", err)
		}
	}

	if !quiet && verifyFormat == "pretty" {
		printVerifySummary(cmd, res)
	}
	if res.HasErrors() {
		return fmt.Errorf("verification failed with %d diagnostics", bag.Len())
	}
	return nil
}

// resolveUnitDir picks the unit directory: an explicit argument wins, else
// the manifest's source directory, else the current directory.
func resolveUnitDir(args []string) (string, *project.Manifest, error) {
	start := "."
	if len(args) == 1 {
		start = args[0]
	}
	manifest, ok, err := project.LoadManifest(start)
	if err != nil {
		return "", nil, err
	}
	if len(args) == 1 {
		return args[0], manifest, nil
	}
	if ok {
		return manifest.SourceDir(), manifest, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	return wd, nil, nil
}

func printVerifySummary(cmd *cobra.Command, res *driver.Result) {
	axioms, cached, failed := 0, 0, 0
	for i := range res.Functions {
		fr := &res.Functions[i]
		axioms += fr.Axioms
		if fr.FromCache {
			cached++
		}
		if fr.Bag != nil && fr.Bag.HasErrors() {
			failed++
		}
	}
	line := fmt.Sprintf("%d functions, %d axioms", len(res.Functions), axioms)
	if cached > 0 {
		line += fmt.Sprintf(" (%d from cache)", cached)
	}
	if failed > 0 {
		line += fmt.Sprintf(", %d failed", failed)
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

func applyColorMode(mode string) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		// auto: пусть решает fatih/color по терминалу
	}
}
