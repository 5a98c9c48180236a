package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/sevigo/apply-warden/internal/jobs"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

func printReport(out io.Writer, report *jobs.Report) {
	titleColor.Fprintf(out, "\nRun %s\n", report.RunID)
	dimColor.Fprintf(out, "%s - %s\n\n", report.StartedAt.Local().Format("15:04:05"), report.FinishedAt.Local().Format("15:04:05"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUERY\tPOSTINGS\tAPPLIED\tEXCLUDED\tSKIPPED\tLIMITED\tREJECTED\tUNKNOWN\tFAILED\t")
	for _, q := range report.Queries {
		writeRow(w, q.Query, q.Stats)
	}
	writeRow(w, "total", report.Total)
	_ = w.Flush()

	for _, q := range report.Queries {
		switch {
		case q.Error != "":
			errorColor.Fprintf(out, "  %s: %s\n", q.Query, q.Error)
		case q.Stats.PoolExhausted:
			warnColor.Fprintf(out, "  %s: all accounts reached their limit\n", q.Query)
		}
	}
	if report.Total.Applied > 0 {
		successColor.Fprintf(out, "\nApplied to %d vacancies.\n", report.Total.Applied)
	}
}

func writeRow(w io.Writer, name string, s jobs.StatsSnapshot) {
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
		name, s.Postings, s.Applied, s.Excluded, s.Skipped, s.RateLimited, s.Rejected, s.Unknown, s.Failed)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
