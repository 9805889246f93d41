package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/shikkq/4eremsha/internal/card"
	"github.com/shikkq/4eremsha/internal/rank"
	"github.com/shikkq/4eremsha/internal/store"
)

func newSheltersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelters",
		Short: "Browse stored shelters",
	}

	var f store.ShelterFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored shelters",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.db.ListShelters(cmd.Context(), f)
			if err != nil {
				return err
			}
			renderShelters(cmd.OutOrStdout(), items, time.Now())
			return nil
		},
	}
	list.Flags().StringVar(&f.City, "city", "", "only this city")
	list.Flags().StringVarP(&f.Query, "query", "q", "", "search name and info")
	list.Flags().IntVar(&f.Limit, "limit", 50, "max rows")
	list.Flags().IntVar(&f.Offset, "offset", 0, "rows to skip")

	show := &cobra.Command{
		Use:   "show <shelter_id>",
		Short: "Print the card of one shelter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.db.GetShelter(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("shelter %s: %w", args[0], err)
			}
			html, err := card.Render(s.ShelterRecord, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}

	var (
		out  string
		city string
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Export shelters to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var all []store.Shelter
			for offset := 0; ; offset += exportPage {
				page, err := a.db.ListShelters(cmd.Context(), store.ShelterFilter{City: city, Limit: exportPage, Offset: offset})
				if err != nil {
					return err
				}
				all = append(all, page...)
				if len(page) < exportPage {
					break
				}
			}
			if err := writeSheltersXLSX(out, all); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d shelters to %s\n", len(all), out)
			return nil
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "shelters.xlsx", "output file")
	export.Flags().StringVar(&city, "city", "", "only this city")

	cmd.AddCommand(list, show, export)
	return cmd
}

const (
	exportPage  = 500
	exportSheet = "Shelters"
)

func renderShelters(w io.Writer, items []store.Shelter, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "City", "Score", "Post", "URL"})
	for _, s := range items {
		t.AppendRow(table.Row{s.ShelterID, s.Name, s.City, s.Score, rank.DaysAgo(s.PostDate, now), s.SourceURL})
	}
	t.AppendFooter(table.Row{"", "", "", "", "total", len(items)})
	t.Render()
}

func writeSheltersXLSX(path string, items []store.Shelter) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	headers := []any{"shelter_id", "name", "city", "score", "post_date", "source_url", "post_url", "info"}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return err
	}
	for i, s := range items {
		postDate := ""
		if !s.PostDate.IsZero() {
			postDate = s.PostDate.Format("2006-01-02")
		}
		row := []any{s.ShelterID, s.Name, s.City, s.Score, postDate, s.SourceURL, s.PostURL, s.Info}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(exportSheet, "B", "B", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "H", "H", 80); err != nil {
		return err
	}
	return f.SaveAs(path)
}
