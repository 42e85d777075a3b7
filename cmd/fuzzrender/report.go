package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	accentColor = lipgloss.Color("#D75F00")
	mutedColor  = lipgloss.Color("#888888")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CC0000"))
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func styledText(style lipgloss.Style, s string, styled bool) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

func printVersion(w io.Writer, version string, styled bool) {
	fmt.Fprintf(w, "%s %s\n", styledText(titleStyle, "fuzzrender", styled), version)
}

func printError(w io.Writer, msg string, styled bool) {
	fmt.Fprintf(w, "%s %s\n", styledText(errorStyle, "Error:", styled), msg)
}

// printReports writes one row per render. Styling is applied after
// alignment so escape codes do not skew the columns.
func printReports(w io.Writer, results []result, styled bool) {
	fmt.Fprintln(w, styledText(titleStyle, "Render summary", styled))

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONFIG\tRATE\tCH\tFRAMES\tEVENTS\tIN PEAK\tOUT PEAK\tOUT RMS\tSPEED\tOUTPUT")

	for _, r := range results {
		out := r.output
		if out == "" {
			out = "-"
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%d\t%d\t%d\t%.1f dB\t%.1f dB\t%.1f dB\t%.0fx\t%s\n",
			r.path,
			r.report.SampleRate,
			r.report.Channels,
			r.report.Frames,
			r.report.Events,
			r.report.InputPeakDB,
			r.report.OutputPeakDB,
			r.report.OutputRMSDB,
			r.report.RealTimeFactor(),
			out,
		)
	}
	_ = tw.Flush()

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	for i, line := range lines {
		if i == 0 {
			line = styledText(headerStyle, line, styled)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, styledText(mutedStyle, fmt.Sprintf("%d render(s)", len(results)), styled))
}
