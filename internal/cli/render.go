package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/basket/internal/engine"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/report"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// RenderRun renders the terminal summary of a run and the files it wrote.
func RenderRun(run *engine.Run, paths report.Paths) string {
	s := report.Summarize(run)

	var b strings.Builder
	fmt.Fprintf(&b, "Input: %s\n", s.Input)
	fmt.Fprintf(&b, "Transactions: %d  Items: %d  Longest: %d\n", s.Transactions, s.Items, s.LongestTransaction)
	fmt.Fprintf(&b, "Min support: %d  Min confidence: %s\n", s.MinSupport, report.FormatFloat(s.MinConfidence))
	fmt.Fprintf(&b, "Frequent itemsets: %d  Rules: %d\n", s.FrequentItemsets, s.Rules)
	fmt.Fprintf(&b, "Itemsets: %s  Rules: %s\n", round(run.Timings.Itemsets), round(run.Timings.Rules))

	levels := newTable("Size", "Candidates", "Frequent")
	for _, l := range run.Levels {
		levels.Row(strconv.Itoa(l.Size), strconv.Itoa(l.Candidates), strconv.Itoa(l.Frequent))
	}

	files := SubtleStyle.Render(fmt.Sprintf("%s %s\n%s %s\n%s %s",
		FolderIcon, paths.Items, FolderIcon, paths.Rules, FolderIcon, paths.Info))

	return RenderBox(ChartIcon+" Mining complete", lipgloss.JoinVertical(
		lipgloss.Left,
		b.String(),
		levels.Render(),
		"",
		files,
	))
}

// RenderHistory renders recorded runs as a table.
func RenderHistory(runs []model.RunRecord) string {
	if len(runs) == 0 {
		return SubtleStyle.Render("No recorded runs")
	}

	t := newTable("ID", "When", "Input", "Minsup", "Minconf", "Itemsets", "Rules", "Itemset time", "Rule time")
	for _, r := range runs {
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Input,
			strconv.Itoa(r.MinSupport),
			report.FormatFloat(r.MinConfidence),
			strconv.Itoa(r.FrequentItemsets),
			strconv.Itoa(r.Rules),
			round(r.ItemsetsDuration).String(),
			round(r.RulesDuration).String(),
		)
	}
	return t.Render()
}

// RenderRunRecord renders a single recorded run with its level counts.
func RenderRunRecord(r *model.RunRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Input: %s\n", r.Input)
	fmt.Fprintf(&b, "Recorded: %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Join: %s  Threshold: %s  Precision: %d\n", r.Join, r.Threshold, r.Precision)
	fmt.Fprintf(&b, "Transactions: %d  Items: %d  Longest: %d\n", r.Transactions, r.DistinctItems, r.LongestTransaction)
	fmt.Fprintf(&b, "Min support: %d  Min confidence: %s\n", r.MinSupport, report.FormatFloat(r.MinConfidence))
	fmt.Fprintf(&b, "Frequent itemsets: %d  Rules: %d\n", r.FrequentItemsets, r.Rules)
	fmt.Fprintf(&b, "Itemsets: %s  Rules: %s\n", round(r.ItemsetsDuration), round(r.RulesDuration))

	levels := newTable("Size", "Frequent")
	for i, n := range r.LevelCounts {
		levels.Row(strconv.Itoa(i+1), strconv.Itoa(n))
	}

	return RenderBox(fmt.Sprintf("%s Run %d", ChartIcon, r.ID), lipgloss.JoinVertical(
		lipgloss.Left,
		b.String(),
		levels.Render(),
	))
}

// RenderSweep renders the time and count series of a sweep.
func RenderSweep(points []engine.SweepPoint) string {
	t := newTable("Minsup", "Minconf", "Itemsets", "Rules", "Itemset secs", "Rule secs")
	for _, p := range points {
		t.Row(
			strconv.Itoa(p.Config.MinSupport),
			report.FormatFloat(p.Config.MinConfidence),
			strconv.Itoa(p.Run.Table.Len()),
			strconv.Itoa(len(p.Run.Rules)),
			fmt.Sprintf("%.4f", p.Run.Timings.Itemsets.Seconds()),
			fmt.Sprintf("%.4f", p.Run.Timings.Rules.Seconds()),
		)
	}
	return t.Render()
}

func round(d time.Duration) time.Duration {
	if d > time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(time.Microsecond)
}
