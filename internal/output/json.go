package output

import (
	"encoding/json"
	"io"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

// JSONReport is the machine-readable dry-run document.
type JSONReport struct {
	ThresholdMB       uint64                 `json:"threshold_mb"`
	SafeToFreezeCount int                    `json:"safe_to_freeze_count"`
	TotalMemoryMB     uint64                 `json:"total_memory_mb"`
	Processes         []domain.ProcessRecord `json:"processes"`
}

// RenderJSON writes the candidates as an indented JSON document.
func RenderJSON(w io.Writer, report *usecase.Report) error {
	processes := report.Candidates
	if processes == nil {
		processes = []domain.ProcessRecord{}
	}
	doc := JSONReport{
		ThresholdMB:       report.ThresholdMB,
		SafeToFreezeCount: report.Summary.SafeCount,
		TotalMemoryMB:     report.Summary.SafeMemoryMB,
		Processes:         processes,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
