package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

var csvHeader = []string{"PID", "Name", "MemoryMB", "Category", "Foreground", "FullPath"}

// RenderCSV writes one row per candidate.
func RenderCSV(w io.Writer, report *usecase.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range report.Candidates {
		row := []string{
			strconv.Itoa(r.PID),
			r.Name,
			strconv.FormatUint(r.MemoryMB, 10),
			r.Category.String(),
			strconv.FormatBool(r.IsForeground),
			r.Path,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
