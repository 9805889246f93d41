package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/scrape"
)

func newScanCommand() *cobra.Command {
	var cities []string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one ingestion pass now",
		Long:  `Searches every configured city (or the ones given with --city), scores new sources and stores the accepted shelters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			d, err := a.newDriver(ctx)
			if err != nil {
				return err
			}
			notifier, err := a.telegram()
			if err != nil {
				return err
			}
			if notifier != nil {
				d.OnAccepted = func(ctx context.Context, acc scrape.Accepted) {
					if err := notifier.NotifyShelter(ctx, acc); err != nil {
						a.log.Warn("notify failed", zap.String("shelter_id", acc.Record.ShelterID), zap.Error(err))
					}
				}
			}

			rep, err := d.Run(ctx, cities)
			renderReport(cmd.OutOrStdout(), rep)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&cities, "city", nil, "city to scan, repeatable (default: configured cities)")
	return cmd
}

func renderReport(w io.Writer, rep scrape.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Run %s (%s)", rep.RunID, rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond)))
	t.AppendHeader(table.Row{"Outcome", "Count"})
	t.AppendRows([]table.Row{
		{"searches", rep.Searches},
		{"search errors", rep.SearchErrors},
		{"sources", rep.Sources},
		{"already seen", rep.Seen},
		{"filtered", rep.Filtered},
		{"no candidate", rep.NoCandidate},
		{"low score", rep.LowScore},
		{"accepted", rep.Accepted},
		{"duplicates", rep.Duplicates},
		{"failed", rep.Failed},
	})
	if rep.CapReached {
		t.AppendFooter(table.Row{"cap reached", "yes"})
	}
	t.Render()
}
