// Package cascade resolves the category -> event date -> event name dropdown
// chain of the registration form.
package cascade

import (
	"context"
	"strconv"
	"time"

	"github.com/campus-events/event-reg/internal/catalog"
)

const (
	FieldCategory  = "category"
	FieldEventDate = "event_date"
	FieldEventName = "event_name"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var Placeholder = Option{Value: "", Label: "- Select -"}

// Catalog is the subset of the event catalog the resolver reads.
type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	Dates(ctx context.Context, category string) ([]catalog.DateOption, error)
	OpenDates(ctx context.Context, category string, now time.Time) ([]catalog.DateOption, error)
	EventNames(ctx context.Context, category string, date int64) ([]catalog.EventOption, error)
}

// Selection holds the user's current choices; zero values mean "not chosen".
type Selection struct {
	Category  string
	EventDate int64
	EventID   uint
}

type Resolution struct {
	// Selection is the input with stale downstream choices removed.
	Selection Selection
	Dates     []Option
	Events    []Option
	// Cleared names the fields whose previous choice was dropped.
	Cleared []string
}

// HasEvent reports whether id is among the resolved event options.
func (r Resolution) HasEvent(id uint) bool {
	return containsValue(r.Events, strconv.FormatUint(uint64(id), 10))
}

type Resolver struct {
	catalog        Catalog
	openWindowOnly bool
}

// NewResolver builds a resolver. With openWindowOnly set, date options only
// include events whose registration window is open.
func NewResolver(c Catalog, openWindowOnly bool) *Resolver {
	return &Resolver{catalog: c, openWindowOnly: openWindowOnly}
}

func (r *Resolver) CategoryOptions(ctx context.Context) ([]Option, error) {
	categories, err := r.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	options := []Option{Placeholder}
	for _, c := range categories {
		options = append(options, Option{Value: c, Label: c})
	}
	return options, nil
}

// Resolve computes the date and event-name options for sel. A downstream
// choice that is no longer offered under the upstream values is cleared, and
// clearing the date also clears the event.
func (r *Resolver) Resolve(ctx context.Context, sel Selection, now time.Time) (Resolution, error) {
	res := Resolution{
		Selection: sel,
		Dates:     []Option{Placeholder},
		Events:    []Option{Placeholder},
	}

	if sel.Category != "" {
		dates, err := r.dates(ctx, sel.Category, now)
		if err != nil {
			return Resolution{}, err
		}
		for _, d := range dates {
			res.Dates = append(res.Dates, Option{Value: strconv.FormatInt(d.Value, 10), Label: d.Label})
		}
	}

	if res.Selection.EventDate != 0 && !containsValue(res.Dates, strconv.FormatInt(res.Selection.EventDate, 10)) {
		res.Selection.EventDate = 0
		res.Cleared = append(res.Cleared, FieldEventDate)
	}

	if res.Selection.Category != "" && res.Selection.EventDate != 0 {
		events, err := r.catalog.EventNames(ctx, res.Selection.Category, res.Selection.EventDate)
		if err != nil {
			return Resolution{}, err
		}
		for _, e := range events {
			res.Events = append(res.Events, Option{Value: strconv.FormatUint(uint64(e.ID), 10), Label: e.Name})
		}
	}

	if res.Selection.EventID != 0 && !res.HasEvent(res.Selection.EventID) {
		res.Selection.EventID = 0
		res.Cleared = append(res.Cleared, FieldEventName)
	}

	return res, nil
}

func (r *Resolver) dates(ctx context.Context, category string, now time.Time) ([]catalog.DateOption, error) {
	if r.openWindowOnly {
		return r.catalog.OpenDates(ctx, category, now)
	}
	return r.catalog.Dates(ctx, category)
}

func containsValue(options []Option, value string) bool {
	for _, o := range options {
		if o.Value != "" && o.Value == value {
			return true
		}
	}
	return false
}
