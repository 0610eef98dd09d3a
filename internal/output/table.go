package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
)

type styles struct {
	title     lipgloss.Style
	freeze    lipgloss.Style
	protected lipgloss.Style
	summary   lipgloss.Style
	dim       lipgloss.Style
}

// newStyles binds styles to w so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		freeze:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		protected: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		summary:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		dim:       r.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

// RenderTable writes the human-readable dry run.
func RenderTable(w io.Writer, report *usecase.Report, opts Options) error {
	st := newStyles(w)

	fmt.Fprintln(w, st.title.Render("SmartFreeze - Dry Run"))
	fmt.Fprintln(w)

	candidates := report.Candidates
	if !opts.All && opts.Top > 0 && len(candidates) > opts.Top {
		candidates = candidates[:opts.Top]
	}

	if len(report.Candidates) == 0 {
		fmt.Fprintln(w, st.freeze.Render("WOULD FREEZE: none (no processes match criteria)"))
	} else {
		heading := fmt.Sprintf("WOULD FREEZE (%d processes, >= %d MB)", len(report.Candidates), report.ThresholdMB)
		if len(candidates) < len(report.Candidates) {
			heading += fmt.Sprintf(", top %d shown", len(candidates))
		}
		fmt.Fprintln(w, st.freeze.Render(heading))
		if err := writeRows(w, candidates, opts.Verbose, nil); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)

	protected := report.Protected
	if !opts.All && len(protected) > ProtectedLimit {
		protected = protected[:ProtectedLimit]
	}
	if len(protected) > 0 {
		heading := fmt.Sprintf("PROTECTED (%d processes)", len(report.Protected))
		if len(protected) < len(report.Protected) {
			heading += fmt.Sprintf(", top %d shown", len(protected))
		}
		fmt.Fprintln(w, st.protected.Render(heading))
		if err := writeRows(w, protected, opts.Verbose, report.ProtectionReason); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	s := report.Summary
	fmt.Fprintln(w, st.summary.Render("SUMMARY"))
	fmt.Fprintf(w, "  Scanned:          %d processes\n", s.Scanned)
	fmt.Fprintf(w, "  Above threshold:  %d\n", s.AboveThreshold)
	fmt.Fprintf(w, "  Safe to freeze:   %d (%d MB)\n", s.SafeCount, s.SafeMemoryMB)
	fmt.Fprintf(w, "  Protected:        %d\n", s.ProtectedCount)
	if report.KeepCommunication {
		fmt.Fprintln(w, "  Communication apps are kept running")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.dim.Render("This is a dry run. To freeze processes use:"))
	fmt.Fprintln(w, st.dim.Render("  smartfreeze freeze --pid <PID>   (manual)"))
	fmt.Fprintln(w, st.dim.Render("  smartfreeze daemon               (automatic while gaming)"))
	return nil
}

func writeRows(w io.Writer, records []domain.ProcessRecord, verbose bool, reason func(domain.ProcessRecord) string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"PID", "NAME", "MEMORY (MB)", "CATEGORY"}
	if reason != nil {
		header = append(header, "REASON")
	}
	if verbose {
		header = append(header, "RULE", "PATH")
	}
	fmt.Fprintln(tw, "  "+strings.Join(header, "\t"))

	for _, r := range records {
		cols := []string{
			fmt.Sprint(r.PID),
			r.Name,
			fmt.Sprint(r.MemoryMB),
			r.Category.String(),
		}
		if reason != nil {
			cols = append(cols, reason(r))
		}
		if verbose {
			path := r.Path
			if path == "" {
				path = "-"
			}
			cols = append(cols, r.Rule, path)
		}
		fmt.Fprintln(tw, "  "+strings.Join(cols, "\t"))
	}
	return tw.Flush()
}
