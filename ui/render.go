package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/habedi/showcase/alert"
	"github.com/habedi/showcase/catalog"
	"github.com/olekukonko/tablewriter"
)

var (
	alertColor = color.New(color.FgYellow, color.Bold)
	labelColor = color.New(color.Bold)
)

// RenderEntries writes entries as a table with their 1-based row number.
func RenderEntries(w io.Writer, entries []catalog.Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Row", "ID", "Title", "Description"})
	table.SetColMinWidth(2, 30)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for i, e := range entries {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			e.ID,
			singleLine(e.Title),
			singleLine(e.Description),
		})
	}
	table.Render()
}

// RenderEntry prints one entry in full.
func RenderEntry(w io.Writer, e catalog.Entry) {
	_, _ = labelColor.Fprint(w, "ID:")
	fmt.Fprintf(w, " %s\n", e.ID)
	_, _ = labelColor.Fprint(w, "Title:")
	fmt.Fprintf(w, " %s\n", e.Title)
	_, _ = labelColor.Fprint(w, "Description:")
	fmt.Fprintf(w, " %s\n", e.Description)
}

// RenderAlert prints the alert line when an alert is visible.
func RenderAlert(w io.Writer, s alert.State) {
	if !s.Visible {
		return
	}
	_, _ = alertColor.Fprintf(w, "! %s", s.Message)
	fmt.Fprintln(w)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
