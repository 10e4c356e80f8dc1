package main

import "fmt"
import "io"
import "sort"

import "github.com/jedib0t/go-pretty/v6/table"
import "github.com/montanaflynn/stats"
import "github.com/pkg/errors"
import "github.com/samber/lo"
import "github.com/urfave/cli/v2"

import "github.com/neurlang/smells/results"

// SummaryAction prints the rows of a result file ranked by F1.
func SummaryAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("summary takes one result file")
	}
	rows, err := results.ReadRows(c.Args().First())
	if err != nil {
		return err
	}
	return summarize(c.App.Writer, rows, c.Int("top"))
}

func summarize(out io.Writer, rows []results.Row, top int) error {
	evaluated := lo.Reject(rows, func(r results.Row, _ int) bool { return r.Skipped })
	sort.SliceStable(evaluated, func(i, j int) bool { return evaluated[i].F1 > evaluated[j].F1 })
	if top > 0 && len(evaluated) > top {
		evaluated = evaluated[:top]
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Layers", "Filters", "Kernel", "Window", "Epochs", "Stopped", "AUC", "Accuracy", "Precision", "Recall", "F1", "AP", "Time"})
	for i, r := range evaluated {
		t.AppendRow(table.Row{
			i + 1, r.Config.ConvLayers, r.Config.Filters, r.Config.Kernel, r.Config.PoolingWindow, r.Config.Epochs,
			r.StoppedEpoch, format(r.AUC), format(r.Accuracy), format(r.Precision), format(r.Recall),
			format(r.F1), format(r.AveragePrecision), r.Time.Round(1e6).String(),
		})
	}

	f1 := lo.Map(lo.Reject(rows, func(r results.Row, _ int) bool { return r.Skipped }),
		func(r results.Row, _ int) float64 { return r.F1 })
	footer := table.Row{"", "", "", "", "", "", "", "", "", "", "", "", "", ""}
	footer[1] = fmt.Sprintf("%d rows, %d skipped", len(rows), len(rows)-len(f1))
	if len(f1) > 0 {
		mean, err := stats.Mean(f1)
		if err != nil {
			return err
		}
		median, err := stats.Median(f1)
		if err != nil {
			return err
		}
		footer[11] = fmt.Sprintf("mean %s median %s", format(mean), format(median))
	}
	t.AppendFooter(footer)
	t.Render()
	return nil
}

func format(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
