package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/campus-events/event-reg/internal/report"
	"github.com/campus-events/event-reg/internal/store"
	"github.com/danielgtaylor/huma/v2"
)

type ExportObserver interface {
	ObserveExport()
}

type AdminHandler struct {
	report   *report.Report
	observer ExportObserver
}

func NewAdminHandler(r *report.Report, observer ExportObserver) *AdminHandler {
	return &AdminHandler{report: r, observer: observer}
}

type ReportFilterInput struct {
	EventDate int64 `query:"event_date" doc:"Only registrations for events on this date (Unix seconds)"`
	EventID   uint  `query:"event_id" doc:"Only registrations for this event"`
}

func (in ReportFilterInput) filter() store.Filter {
	var f store.Filter
	if in.EventDate != 0 {
		date := in.EventDate
		f.EventDate = &date
	}
	if in.EventID != 0 {
		id := in.EventID
		f.EventID = &id
	}
	return f
}

type ListRegistrationsResponse struct {
	Body report.Table
}

func (h *AdminHandler) HandleList(ctx context.Context, input *ReportFilterInput) (*ListRegistrationsResponse, error) {
	table, err := h.report.Rows(ctx, input.filter())
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list registrations: " + err.Error())
	}
	if table.Rows == nil {
		table.Rows = []report.Row{}
	}
	return &ListRegistrationsResponse{Body: table}, nil
}

type FiltersRequest struct {
	EventDate int64 `query:"event_date" doc:"Narrow the event list to this date (Unix seconds)"`
}

type FiltersResponse struct {
	Body report.FilterOptions
}

func (h *AdminHandler) HandleFilters(ctx context.Context, input *FiltersRequest) (*FiltersResponse, error) {
	var date *int64
	if input.EventDate != 0 {
		date = &input.EventDate
	}
	options, err := h.report.Filters(ctx, date)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load filters: " + err.Error())
	}
	return &FiltersResponse{Body: options}, nil
}

type ExportResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *AdminHandler) HandleExport(ctx context.Context, input *ReportFilterInput) (*ExportResponse, error) {
	var buf bytes.Buffer
	if err := h.report.ExportCSV(ctx, &buf, input.filter()); err != nil {
		return nil, huma.Error500InternalServerError("Failed to export registrations: " + err.Error())
	}
	if h.observer != nil {
		h.observer.ObserveExport()
	}

	return &ExportResponse{
		ContentType:        "text/csv",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", report.ExportFilename),
		Body:               buf.Bytes(),
	}, nil
}
