package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/expand"
	"quill/internal/project"
	"quill/internal/source"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <file.ql|directory>",
	Short: "Expand macros in a quill source file or directory",
	Long:  `Expand all macro invocations in a .ql source file, or in every .ql file within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	expandCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	expandCmd.Flags().Bool("trace", false, "trace macro expansions")
	expandCmd.Flags().Uint("recursion-limit", 0, "macro recursion limit (0=default)")
	expandCmd.Flags().String("edition", "", "language edition (2024|2025)")
	expandCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	expandCmd.Flags().Bool("disk-cache", false, "cache clean expansion results on disk")
}

func runExpand(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	trace, err := cmd.Flags().GetBool("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	recursionLimit, err := cmd.Flags().GetUint("recursion-limit")
	if err != nil {
		return fmt.Errorf("failed to get recursion-limit flag: %w", err)
	}
	editionFlag, err := cmd.Flags().GetString("edition")
	if err != nil {
		return fmt.Errorf("failed to get edition flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	opts, err := buildOptions(path, trace, recursionLimit, editionFlag, maxDiagnostics)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	var results []driver.FileResult
	if info.IsDir() {
		var cache *driver.DiskCache
		if useCache {
			cache, err = driver.OpenDiskCache("quill")
			if err != nil {
				return fmt.Errorf("failed to open disk cache: %w", err)
			}
		}
		results, err = driver.ExpandDir(cmd.Context(), path, opts, cache, jobs)
		if err != nil {
			return err
		}
	} else {
		results = []driver.FileResult{driver.ExpandFile(path, opts)}
	}

	hadErrors := false
	for _, res := range results {
		printDiagnostics(cmd, res, format, colorMode)
		if res.HasErrors() {
			hadErrors = true
			continue
		}
		if !quiet && res.Output != "" {
			fmt.Fprint(cmd.OutOrStdout(), res.Output)
		}
	}
	if hadErrors {
		return fmt.Errorf("expansion failed")
	}
	return nil
}

// buildOptions merges manifest settings with command-line overrides.
// Flags win over the manifest; the manifest wins over defaults.
func buildOptions(path string, trace bool, recursionLimit uint, editionFlag string, maxDiagnostics int) (driver.Options, error) {
	cfg := expand.DefaultExpansionConfig("main")
	edition := source.DefaultEdition

	manifest, err := project.DiscoverManifest(startDirFor(path))
	if err != nil {
		return driver.Options{}, err
	}
	if manifest != nil {
		if manifest.Package.Name != "" {
			cfg.CrateName = manifest.Package.Name
		}
		if manifest.Package.Edition != "" {
			ed, ok := source.ParseEdition(manifest.Package.Edition)
			if !ok {
				return driver.Options{}, fmt.Errorf("quill.toml: unknown edition %q", manifest.Package.Edition)
			}
			edition = ed
		}
		if manifest.Macros.RecursionLimit > 0 {
			cfg.RecursionLimit = manifest.Macros.RecursionLimit
		}
		cfg.TraceMac = manifest.Macros.Trace
	}

	if trace {
		cfg.TraceMac = true
	}
	if recursionLimit > 0 {
		cfg.RecursionLimit = recursionLimit
	}
	if editionFlag != "" {
		ed, ok := source.ParseEdition(editionFlag)
		if !ok {
			return driver.Options{}, fmt.Errorf("unknown edition %q", editionFlag)
		}
		edition = ed
	}

	return driver.Options{
		Config:         cfg,
		Edition:        edition,
		MaxDiagnostics: maxDiagnostics,
	}, nil
}

func startDirFor(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return "."
}

func printDiagnostics(cmd *cobra.Command, res driver.FileResult, format, colorMode string) {
	if res.Bag == nil || res.Bag.Len() == 0 {
		return
	}
	files := res.Files
	if files == nil {
		files = source.NewFileSet()
	}
	out := cmd.ErrOrStderr()
	if format == "json" {
		_ = diagfmt.JSON(out, res.Bag, files, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
		return
	}
	diagfmt.Pretty(out, res.Bag, files, diagfmt.PrettyOpts{
		Color:     useColor(colorMode, os.Stderr),
		ShowNotes: true,
	})
}
