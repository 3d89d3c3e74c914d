package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iipmodel/readiness/internal/contract"
)

// document renders one output in a single format.
type document func(w io.Writer) error

// emit sends doc to the configured output file, or stdout when none is set.
// Writing to a file is announced on stderr with what was written.
func emit(cfg *contract.Config, what string, doc document) error {
	out, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	toFile := out != os.Stdout
	if toFile {
		defer func() { _ = out.Close() }()
	}

	if err := doc(out); err != nil {
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
	if toFile {
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", what, cfg.OutputFile)
	}
	return nil
}

// jsonDocument encodes v with two-space indentation.
func jsonDocument(v any) document {
	return func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// csvDocument writes the header row and then every record.
func csvDocument(header []string, records [][]string) document {
	return func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		return cw.WriteAll(records)
	}
}

// decimals formats scores and weights at a fixed precision.
func decimals(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}
