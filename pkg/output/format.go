// Package output provides utilities for formatting and exporting simulation
// results.
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/jptremblay/patrimoine/internal/portfolio"
	"github.com/jptremblay/patrimoine/internal/simulation"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// entityColumns returns the sorted union of entity names across every
// snapshot's breakdown.
func entityColumns(snapshots []simulation.Snapshot, pick func(simulation.Snapshot) portfolio.Breakdown) []string {
	seen := make(map[string]bool)
	for _, snapshot := range snapshots {
		for name := range pick(snapshot).Entities {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cashFlowOf(s simulation.Snapshot) portfolio.Breakdown { return s.CashFlow }
func netWorthOf(s simulation.Snapshot) portfolio.Breakdown { return s.NetWorth }

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, snapshots []simulation.Snapshot) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "Date       | Cash Flow       | Net Worth\n")
	fmt.Fprintf(w, "____       | _________       | _________\n")
	for _, snapshot := range snapshots {
		_, _ = p.Fprintf(w, "%s | $%.2f | $%.2f\n",
			datetime.FormatDate(snapshot.Date), snapshot.CashFlow.Total, snapshot.NetWorth.Total)
	}
}

// CsvFormat outputs in comma-separated value format with one column per
// entity for both aggregations, plus their totals.
func CsvFormat(w io.Writer, snapshots []simulation.Snapshot) {
	cashFlowNames := entityColumns(snapshots, cashFlowOf)
	netWorthNames := entityColumns(snapshots, netWorthOf)

	fmt.Fprintf(w, `"date"`)
	for _, name := range cashFlowNames {
		fmt.Fprintf(w, `,"cash flow (%s)"`, name)
	}
	fmt.Fprintf(w, `,"cash flow (Total)"`)
	for _, name := range netWorthNames {
		fmt.Fprintf(w, `,"net worth (%s)"`, name)
	}
	fmt.Fprintf(w, `,"net worth (Total)"`)
	fmt.Fprintf(w, "\n")

	for _, snapshot := range snapshots {
		fmt.Fprintf(w, `"%s"`, datetime.FormatDate(snapshot.Date))
		for _, name := range cashFlowNames {
			fmt.Fprintf(w, `,"%.2f"`, snapshot.CashFlow.Entities[name])
		}
		fmt.Fprintf(w, `,"%.2f"`, snapshot.CashFlow.Total)
		for _, name := range netWorthNames {
			fmt.Fprintf(w, `,"%.2f"`, snapshot.NetWorth.Entities[name])
		}
		fmt.Fprintf(w, `,"%.2f"`, snapshot.NetWorth.Total)
		fmt.Fprintf(w, "\n")
	}
}
