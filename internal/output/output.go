// Package output renders dry-run reports as a table, JSON or CSV.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ProtectedLimit caps the protected section of the table.
const ProtectedLimit = 20

// ParseFormat accepts table, json or csv in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json or csv)", s)
	}
}

// Options controls the table renderer. JSON and CSV always list every candidate.
type Options struct {
	All     bool // Show every candidate and every protected process
	Top     int  // Candidate rows shown when All is false; <= 0 means all
	Verbose bool // Add full path and matching rule columns
}

// Render writes report to w in the given format.
func Render(w io.Writer, format Format, report *usecase.Report, opts Options) error {
	switch format {
	case FormatJSON:
		return RenderJSON(w, report)
	case FormatCSV:
		return RenderCSV(w, report)
	case FormatTable, "":
		return RenderTable(w, report, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
