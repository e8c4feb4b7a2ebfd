package inventory

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 80

func bar(ch string) string {
	return strings.Repeat(ch, barWidth)
}

// Render writes the report as a line-oriented text document.
func Render(w io.Writer, r *Report) {
	fmt.Fprintln(w, bar("="))
	fmt.Fprintln(w, "FEATURE FLAG MANAGEMENT REPORT")
	fmt.Fprintln(w, "Harness FME")
	fmt.Fprintf(w, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, bar("="))

	for _, wf := range r.Workspaces {
		fmt.Fprintf(w, "\n%s\n", bar("-"))
		fmt.Fprintf(w, "WORKSPACE: %s\n", wf.Workspace.Name)
		fmt.Fprintln(w, bar("-"))

		if len(wf.Flags) == 0 {
			fmt.Fprintln(w, "  No feature flags found")
			continue
		}

		fmt.Fprintf(w, "\nFeature Flags: %d\n\n", len(wf.Flags))
		for _, f := range wf.Flags {
			fmt.Fprintf(w, "  [%s] %s\n", f.Status, f.Name)
			fmt.Fprintf(w, "    Owner: %s\n", f.Owner)
			if f.Description != "No description" {
				fmt.Fprintf(w, "    Description: %s\n", f.Description)
			}
			if tags := f.TagsDisplay(); tags != "None" {
				fmt.Fprintf(w, "    Tags: %s\n", tags)
			}
			fmt.Fprintf(w, "    Created: %s\n\n", f.Created)
		}
	}

	fmt.Fprintf(w, "\n%s\n", bar("="))
	fmt.Fprintln(w, "SUMMARY STATISTICS")
	fmt.Fprintln(w, bar("="))

	fmt.Fprintln(w, "\nOVERALL METRICS")
	fmt.Fprintf(w, "  * Total Workspaces: %d\n", r.TotalWorkspaces)
	fmt.Fprintf(w, "  * Total Feature Flags: %d\n", r.TotalFlags)
	if r.HasAverage {
		fmt.Fprintf(w, "  * Average Flags per Workspace: %.1f\n", r.AverageFlags)
	}

	fmt.Fprintln(w, "\nFLAGS BY WORKSPACE")
	for _, e := range r.ByWorkspace {
		fmt.Fprintf(w, "  * %s: %d flags\n", e.Key, e.Count)
	}

	fmt.Fprintln(w, "\nTOP FLAG OWNERS")
	for _, e := range r.TopOwners {
		fmt.Fprintf(w, "  * %s: %d flags\n", e.Key, e.Count)
	}

	fmt.Fprintln(w, "\nFLAGS BY ROLLOUT STATUS")
	for _, e := range r.ByStatus {
		fmt.Fprintf(w, "  * %s: %d flags (%.1f%%)\n", e.Status, e.Count, e.Percent)
	}

	if len(r.ByTag) > 0 {
		fmt.Fprintln(w, "\nFLAGS BY TAG")
		for _, e := range r.ByTag {
			fmt.Fprintf(w, "  * %s: %d flags\n", e.Key, e.Count)
		}
	}

	fmt.Fprintf(w, "\n%s\n", bar("="))
	fmt.Fprintln(w, "END OF REPORT")
	fmt.Fprintln(w, bar("="))
}
