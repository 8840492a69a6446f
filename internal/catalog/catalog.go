// Package catalog holds the read-only queries over the event table that drive
// the registration form and the admin filters.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-events/event-reg/internal/models"
	"gorm.io/gorm"
)

// DateLayout renders event dates in dropdowns and reports.
const DateLayout = "02 Jan 2006"

type DateOption struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

type EventOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Catalog struct {
	db     *gorm.DB
	loc    *time.Location
	logger *slog.Logger
}

func New(db *gorm.DB, loc *time.Location, logger *slog.Logger) *Catalog {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{db: db, loc: loc, logger: logger}
}

// FormatDate renders a Unix timestamp with DateLayout in the catalog's zone.
func (c *Catalog) FormatDate(ts int64) string {
	return time.Unix(ts, 0).In(c.loc).Format(DateLayout)
}

// OpenEvent returns any event whose registration window contains now, or nil.
func (c *Catalog) OpenEvent(ctx context.Context, now time.Time) (*models.Event, error) {
	ts := now.Unix()
	var event models.Event
	err := c.db.WithContext(ctx).
		Where("registration_start <= ? AND registration_end >= ?", ts, ts).
		Take(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup open event: %w", err)
	}
	return &event, nil
}

func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.db.WithContext(ctx).Model(&models.Event{}).
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Dates lists the distinct event dates of a category.
func (c *Catalog) Dates(ctx context.Context, category string) ([]DateOption, error) {
	return c.dates(ctx, c.db.WithContext(ctx).Where("category = ?", category))
}

// OpenDates is Dates restricted to events whose registration window contains now.
func (c *Catalog) OpenDates(ctx context.Context, category string, now time.Time) ([]DateOption, error) {
	ts := now.Unix()
	return c.dates(ctx, c.db.WithContext(ctx).
		Where("category = ?", category).
		Where("registration_start <= ? AND registration_end >= ?", ts, ts))
}

// AllDates lists every distinct event date.
func (c *Catalog) AllDates(ctx context.Context) ([]DateOption, error) {
	return c.dates(ctx, c.db.WithContext(ctx))
}

func (c *Catalog) dates(ctx context.Context, scope *gorm.DB) ([]DateOption, error) {
	var timestamps []int64
	err := scope.Model(&models.Event{}).
		Distinct().
		Order("event_date").
		Pluck("event_date", &timestamps).Error
	if err != nil {
		return nil, fmt.Errorf("list event dates: %w", err)
	}

	options := make([]DateOption, 0, len(timestamps))
	for _, ts := range timestamps {
		options = append(options, DateOption{Value: ts, Label: c.FormatDate(ts)})
	}
	return options, nil
}

// EventNames lists the events matching both category and exact date.
func (c *Catalog) EventNames(ctx context.Context, category string, date int64) ([]EventOption, error) {
	var events []models.Event
	err := c.db.WithContext(ctx).
		Select("id", "event_name").
		Where("category = ? AND event_date = ?", category, date).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list event names: %w", err)
	}

	c.logger.Info("Loaded event names",
		slog.String("category", category),
		slog.Int64("date", date),
		slog.Int("count", len(events)),
	)

	return toOptions(events), nil
}

// Events lists every event, or only those on date when it is set.
func (c *Catalog) Events(ctx context.Context, date *int64) ([]EventOption, error) {
	query := c.db.WithContext(ctx).Select("id", "event_name").Order("id")
	if date != nil {
		query = query.Where("event_date = ?", *date)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return toOptions(events), nil
}

// EventsByID loads the events with the given ids. Unknown ids are absent from the map.
func (c *Catalog) EventsByID(ctx context.Context, ids []uint) (map[uint]models.Event, error) {
	out := make(map[uint]models.Event, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var events []models.Event
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	for _, e := range events {
		out[e.ID] = e
	}
	return out, nil
}

func toOptions(events []models.Event) []EventOption {
	options := make([]EventOption, 0, len(events))
	for _, e := range events {
		options = append(options, EventOption{ID: e.ID, Name: e.EventName})
	}
	return options
}
