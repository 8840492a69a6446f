package main

import (
	"fmt"
	"os"
	"time"

	"github.com/campus-events/event-reg/internal/catalog"
	"github.com/campus-events/event-reg/internal/report"
	"github.com/campus-events/event-reg/internal/store"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		out       string
		eventID   uint
		eventDate string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the registration report as CSV",
		Long: `Export writes the admin registration report as CSV, newest first.
Use --out - to write to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			f, err := buildFilter(eventID, eventDate, loc)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer file.Close()
				w = file
			}
			return report.New(a.store, a.catalog, loc).ExportCSV(cmd.Context(), w, f)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", report.ExportFilename, "Output file, or - for stdout")
	cmd.Flags().UintVar(&eventID, "event-id", 0, "Only registrations for this event id")
	cmd.Flags().StringVar(&eventDate, "event-date", "", `Only registrations for events on this date, e.g. "01 May 2024"`)

	return cmd
}

func buildFilter(eventID uint, eventDate string, loc *time.Location) (store.Filter, error) {
	var f store.Filter
	if eventID != 0 {
		f.EventID = &eventID
	}
	if eventDate != "" {
		d, err := time.ParseInLocation(catalog.DateLayout, eventDate, loc)
		if err != nil {
			return store.Filter{}, fmt.Errorf("invalid --event-date %q: %w", eventDate, err)
		}
		ts := d.Unix()
		f.EventDate = &ts
	}
	return f, nil
}
