// Package report builds the admin registration listing and its CSV export.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/campus-events/event-reg/internal/cascade"
	"github.com/campus-events/event-reg/internal/catalog"
	"github.com/campus-events/event-reg/internal/models"
	"github.com/campus-events/event-reg/internal/store"
)

const (
	ExportFilename  = "event_registrations.csv"
	Missing         = "-"
	TimestampLayout = "02 Jan 2006 15:04"
)

var ExportHeader = []string{
	"ID",
	"Full Name",
	"Email",
	"College",
	"Department",
	"Event Name",
	"Event Date",
	"Registered On",
}

var AllPlaceholder = cascade.Option{Value: "", Label: "- All -"}

type Store interface {
	List(ctx context.Context, f store.Filter) ([]models.Registration, error)
	Count(ctx context.Context, f store.Filter) (int64, error)
}

type Catalog interface {
	AllDates(ctx context.Context) ([]catalog.DateOption, error)
	Events(ctx context.Context, date *int64) ([]catalog.EventOption, error)
	EventsByID(ctx context.Context, ids []uint) (map[uint]models.Event, error)
}

type Row struct {
	ID           uint   `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	EventName    string `json:"event_name"`
	EventDate    string `json:"event_date"`
	CollegeName  string `json:"college_name"`
	Department   string `json:"department"`
	RegisteredOn string `json:"registered_on"`
}

type Table struct {
	Rows  []Row `json:"rows"`
	Total int64 `json:"total"`
}

type FilterOptions struct {
	Dates  []cascade.Option `json:"event_date"`
	Events []cascade.Option `json:"event_id"`
}

type Report struct {
	store   Store
	catalog Catalog
	loc     *time.Location
}

func New(s Store, c Catalog, loc *time.Location) *Report {
	if loc == nil {
		loc = time.UTC
	}
	return &Report{store: s, catalog: c, loc: loc}
}

// Rows lists the filtered registrations newest first, with event metadata
// resolved. Registrations whose event no longer exists render Missing.
func (r *Report) Rows(ctx context.Context, f store.Filter) (Table, error) {
	regs, err := r.store.List(ctx, f)
	if err != nil {
		return Table{}, err
	}
	total, err := r.store.Count(ctx, f)
	if err != nil {
		return Table{}, err
	}

	ids := make([]uint, 0, len(regs))
	seen := make(map[uint]bool, len(regs))
	for _, reg := range regs {
		if !seen[reg.EventID] {
			seen[reg.EventID] = true
			ids = append(ids, reg.EventID)
		}
	}
	events, err := r.catalog.EventsByID(ctx, ids)
	if err != nil {
		return Table{}, err
	}

	rows := make([]Row, 0, len(regs))
	for _, reg := range regs {
		row := Row{
			ID:           reg.ID,
			FullName:     reg.FullName,
			Email:        reg.Email,
			EventName:    Missing,
			EventDate:    Missing,
			CollegeName:  reg.CollegeName,
			Department:   reg.Department,
			RegisteredOn: reg.CreatedAt().In(r.loc).Format(TimestampLayout),
		}
		if ev, ok := events[reg.EventID]; ok {
			row.EventName = ev.EventName
			row.EventDate = ev.Date().In(r.loc).Format(catalog.DateLayout)
		}
		rows = append(rows, row)
	}

	return Table{Rows: rows, Total: total}, nil
}

// Filters returns the admin filter choices. The event list is narrowed to
// date when one is selected.
func (r *Report) Filters(ctx context.Context, date *int64) (FilterOptions, error) {
	dates, err := r.catalog.AllDates(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	events, err := r.catalog.Events(ctx, date)
	if err != nil {
		return FilterOptions{}, err
	}

	out := FilterOptions{
		Dates:  []cascade.Option{AllPlaceholder},
		Events: []cascade.Option{AllPlaceholder},
	}
	for _, d := range dates {
		out.Dates = append(out.Dates, cascade.Option{Value: strconv.FormatInt(d.Value, 10), Label: d.Label})
	}
	for _, e := range events {
		out.Events = append(out.Events, cascade.Option{Value: strconv.FormatUint(uint64(e.ID), 10), Label: e.Name})
	}
	return out, nil
}

// ExportCSV writes ExportHeader followed by one line per registration.
func (r *Report) ExportCSV(ctx context.Context, w io.Writer, f store.Filter) error {
	table, err := r.Rows(ctx, f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.FullName,
			row.Email,
			row.CollegeName,
			row.Department,
			row.EventName,
			row.EventDate,
			row.RegisteredOn,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
