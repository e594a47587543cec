package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// listing collects command output rows. Numeric columns are right-aligned.
type listing struct {
	headers []string
	numeric map[int]bool
	rows    []table.Row
}

func newListing(headers ...string) *listing {
	return &listing{headers: headers, numeric: make(map[int]bool)}
}

// rightAlign marks zero-based columns as numeric.
func (l *listing) rightAlign(cols ...int) *listing {
	for _, c := range cols {
		l.numeric[c] = true
	}
	return l
}

// add appends a row, padded or cut to the header width.
func (l *listing) add(cells ...any) {
	row := make(table.Row, len(l.headers))
	copy(row, cells)
	for i := range row {
		if row[i] == nil {
			row[i] = ""
		}
	}
	l.rows = append(l.rows, row)
}

func (l *listing) String() string {
	if len(l.headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	style := table.StyleRounded
	if plainOutput() {
		style = table.StyleLight
	}
	tw.SetStyle(style)

	header := make(table.Row, len(l.headers))
	configs := make([]table.ColumnConfig, len(l.headers))
	for i, h := range l.headers {
		header[i] = h
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft, Align: text.AlignLeft}
		if l.numeric[i] {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.AppendRows(l.rows)
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
