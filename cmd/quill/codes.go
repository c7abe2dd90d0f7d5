package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/errcodes"
)

var codesCmd = &cobra.Command{
	Use:   "codes [flags] <file.ql>",
	Short: "List the long-form error codes a program registers",
	Long:  `Expand the file to run its error-code registrations, then print every registered code that carries a description`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCodes,
}

func init() {
	codesCmd.Flags().String("export", "", "write the code table to a msgpack file")
}

func runCodes(cmd *cobra.Command, args []string) error {
	path := args[0]

	exportPath, err := cmd.Flags().GetString("export")
	if err != nil {
		return fmt.Errorf("failed to get export flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	opts, err := buildOptions(path, false, 0, "", maxDiagnostics)
	if err != nil {
		return err
	}

	res := driver.ExpandFile(path, opts)
	printDiagnostics(cmd, res, "pretty", colorMode)
	if res.HasErrors() {
		return fmt.Errorf("expansion failed")
	}

	if exportPath != "" {
		if err := errcodes.Export(exportPath, res.Codes); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d codes to %s\n", len(res.Codes), exportPath)
		return nil
	}

	for _, row := range res.Codes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%s", row.Code, row.Description)
		if !endsWithNewline(row.Description) {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}

func endsWithNewline(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '\n'
}
