package errcodes

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/diag"
)

// Export writes a rendered code table to path in msgpack, for tooling
// that looks descriptions up without running the compiler.
func Export(path string, rows []diag.CodeDescription) error {
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode diagnostics table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write diagnostics table: %w", err)
	}
	return nil
}

// Import reads a table previously written by Export.
func Import(path string) ([]diag.CodeDescription, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return nil, fmt.Errorf("read diagnostics table: %w", err)
	}
	var rows []diag.CodeDescription
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode diagnostics table: %w", err)
	}
	return rows, nil
}
