package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dconde/ftpc"
	"github.com/dconde/ftpc/internal/fileutil"
)

// tableFormatter renders directory listings as aligned tables.
type tableFormatter struct {
	table *tablewriter.Table
}

func newTableFormatter() *tableFormatter {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Type", "Size", "Permissions", "Modified")
	table.Options(
		tablewriter.WithRendition(tw.Rendition{Borders: tw.Border{Left: tw.Pending, Right: tw.Pending, Top: tw.Pending, Bottom: tw.Pending}}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.MaxWidth = 0
		cfg.Header = tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		}
		cfg.Row = tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		}
	})

	return &tableFormatter{table: table}
}

func (tf *tableFormatter) render(entries []ftpc.Entry) error {
	if len(entries) == 0 {
		fmt.Println("Directory is empty")
		return nil
	}

	tf.table.Reset()
	tf.table.Header("Name", "Type", "Size", "Permissions", "Modified")

	for _, entry := range entries {
		name := entry.Name
		if entry.Type == ftpc.EntryDir {
			name += "/"
		}
		if len(name) > 50 {
			name = name[:47] + "..."
		}

		size := "-"
		if entry.Type == ftpc.EntryFile {
			size = fileutil.FormatSize(entry.Size)
		}

		perms := entry.Permissions
		if perms == "" {
			perms = "-"
		}

		modified := entry.Modified
		if modified == "" {
			modified = "-"
		}

		tf.table.Append([]string{
			name,
			string(entry.Type),
			size,
			perms,
			modified,
		})
	}

	return tf.table.Render()
}
