package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/drakos74/multilang-experiments/internal/math"
	"github.com/drakos74/multilang-experiments/internal/runner"
)

// printSummary renders the repeat statistics as a table.
func printSummary(w io.Writer, summaries []runner.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"id", "experiment", "runs", "accuracy", "std", "f1 macro", "std"})
	for _, s := range summaries {
		table.Append([]string{
			s.ExperimentID,
			s.ExperimentName,
			strconv.Itoa(s.Runs),
			math.Format(s.Accuracy),
			math.Format(s.AccuracyStd),
			math.Format(s.F1Macro),
			math.Format(s.F1MacroStd),
		})
	}
	table.Render()
}
