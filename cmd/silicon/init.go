package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new silicon project",
	Long: `Initialize a new silicon project by creating a project manifest
(silicon.toml) and an example unit (main.sil). If [path|name] is omitted,
initializes the current directory. If a non-existing name is provided, a
directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "silicon-project"
	}

	manifestPath := filepath.Join(target, "silicon.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.sil")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainSil()), 0o600); err != nil {
			return fmt.Errorf("failed to write main.sil: %w", err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized silicon project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - silicon.toml\n")
	if createdMain {
		fmt.Fprintf(os.Stdout, "  - main.sil\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - main.sil (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a minimal TOML manifest used as the project
// marker; [verify] keys are optional and default to CLI behavior.
func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# Silicon project manifest
[package]
name = "%s"

[verify]
source = "."
# jobs = 0              # 0 = number of CPUs
# max_diagnostics = 100
`, name)
}

// defaultMainSil returns the example unit: a recursive function over a
// linked-list predicate, enough to exercise every axiom kind.
func defaultMainSil() string {
	return `// Example unit: a heap-recursive function with a full contract.

field next: Ref
field val: Int

predicate list(r: Ref) {
    r != null
}

function length(r: Ref): Int
    requires list(r)
    ensures result >= 0
{
    unfolding list(r) in r.next == null ? 0 : 1 + length(r.next)
}
`
}
