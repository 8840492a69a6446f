// Package workflow runs one registration attempt: the window check, the form
// description, validation and persistence.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/campus-events/event-reg/internal/cascade"
	"github.com/campus-events/event-reg/internal/clock"
	"github.com/campus-events/event-reg/internal/models"
	"github.com/campus-events/event-reg/internal/notifier"
	"github.com/campus-events/event-reg/internal/store"
	"github.com/go-playground/validator/v10"
)

const (
	MessageClosed  = "Registration is currently closed."
	MessageSuccess = "Thank you for registering. Your registration has been recorded."
)

type Status string

const (
	StatusClosed   Status = "closed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Catalog is the part of the event catalog the workflow needs.
type Catalog interface {
	OpenEvent(ctx context.Context, now time.Time) (*models.Event, error)
	EventsByID(ctx context.Context, ids []uint) (map[uint]models.Event, error)
}

type Store interface {
	Exists(ctx context.Context, email string, eventID uint) (bool, error)
	Insert(ctx context.Context, reg *models.Registration) (uint, error)
}

// Observer is told the outcome of every submission: "accepted", "rejected",
// "duplicate" or "closed".
type Observer interface {
	ObserveSubmission(outcome string)
}

type Submission struct {
	FullName   string `field:"full_name" validate:"required,alphaspace"`
	Email      string `field:"email" validate:"required,email"`
	College    string `field:"college" validate:"required,alphaspace"`
	Department string `field:"department" validate:"required,alphaspace"`
	Category   string `field:"category" validate:"required"`
	EventDate  int64  `field:"event_date" validate:"required"`
	EventID    uint   `field:"event_name" validate:"required"`
}

func (s Submission) normalized() Submission {
	s.FullName = strings.TrimSpace(s.FullName)
	s.Email = strings.TrimSpace(s.Email)
	s.College = strings.TrimSpace(s.College)
	s.Department = strings.TrimSpace(s.Department)
	s.Category = strings.TrimSpace(s.Category)
	return s
}

type Outcome struct {
	Status         Status
	Message        string
	Errors         []FieldError
	RegistrationID uint
}

type Form struct {
	Open    bool
	Message string
	Fields  []Field
	// Cleared lists fields whose submitted choice was stale and dropped.
	Cleared []string
}

type Workflow struct {
	catalog  Catalog
	resolver *cascade.Resolver
	store    Store
	clock    clock.Clock
	notifier notifier.Notifier
	observer Observer
	logger   *slog.Logger
	validate *validator.Validate
}

type Option func(*Workflow)

func WithNotifier(n notifier.Notifier) Option {
	return func(w *Workflow) { w.notifier = n }
}

func WithObserver(o Observer) Option {
	return func(w *Workflow) { w.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

func New(c Catalog, resolver *cascade.Resolver, s Store, clk clock.Clock, opts ...Option) *Workflow {
	w := &Workflow{
		catalog:  c,
		resolver: resolver,
		store:    s,
		clock:    clk,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.clock == nil {
		w.clock = clock.System
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Form describes the registration form for the current selections, or only
// the closed notice when no event is accepting registrations.
func (w *Workflow) Form(ctx context.Context, sel cascade.Selection) (Form, error) {
	now := w.clock.Now()

	open, err := w.catalog.OpenEvent(ctx, now)
	if err != nil {
		return Form{}, err
	}
	if open == nil {
		return Form{Open: false, Message: MessageClosed}, nil
	}

	categories, err := w.resolver.CategoryOptions(ctx)
	if err != nil {
		return Form{}, err
	}
	res, err := w.resolver.Resolve(ctx, sel, now)
	if err != nil {
		return Form{}, err
	}

	fields := make([]Field, 0, len(fieldSpecs))
	for _, f := range fieldSpecs {
		switch f.Name {
		case FieldCategory:
			f.Options = categories
		case FieldEventDate:
			f.Options = res.Dates
		case FieldEventName:
			f.Options = res.Events
		}
		fields = append(fields, f)
	}

	return Form{Open: true, Fields: fields, Cleared: res.Cleared}, nil
}

// Resolve returns the dependent options for the given selections.
func (w *Workflow) Resolve(ctx context.Context, sel cascade.Selection) (cascade.Resolution, error) {
	return w.resolver.Resolve(ctx, sel, w.clock.Now())
}

// Submit validates and stores one registration. Every check runs so that all
// field errors are reported together; nothing is stored when any fails.
// The returned error is reserved for storage failures.
func (w *Workflow) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	now := w.clock.Now()

	open, err := w.catalog.OpenEvent(ctx, now)
	if err != nil {
		return Outcome{}, err
	}
	if open == nil {
		w.observe("closed")
		return Outcome{Status: StatusClosed, Message: MessageClosed}, nil
	}

	sub = sub.normalized()
	errs := fieldErrors{}

	if err := checkFields(w.validate, sub, errs); err != nil {
		return Outcome{}, err
	}

	if sub.Category != "" && sub.EventDate != 0 && sub.EventID != 0 {
		res, err := w.resolver.Resolve(ctx, cascade.Selection{
			Category:  sub.Category,
			EventDate: sub.EventDate,
			EventID:   sub.EventID,
		}, now)
		if err != nil {
			return Outcome{}, err
		}
		if !res.HasEvent(sub.EventID) {
			errs.set(FieldEventName, MessageStaleEvent)
		}
	}

	if sub.Email != "" && sub.EventID != 0 {
		exists, err := w.store.Exists(ctx, sub.Email, sub.EventID)
		if err != nil {
			return Outcome{}, err
		}
		if exists {
			errs.set(FieldEmail, MessageDuplicate)
		}
	}

	if len(errs) > 0 {
		return w.reject(errs), nil
	}

	reg := &models.Registration{
		EventID: sub.EventID,
		Created: now.Unix(),
		RegistrationFields: models.RegistrationFields{
			FullName:    sub.FullName,
			Email:       sub.Email,
			CollegeName: sub.College,
			Department:  sub.Department,
		},
	}

	id, err := w.store.Insert(ctx, reg)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyRegistered) {
			errs.set(FieldEmail, MessageDuplicate)
			return w.reject(errs), nil
		}
		return Outcome{}, fmt.Errorf("save registration: %w", err)
	}

	w.logger.Info("Registration accepted",
		slog.Uint64("registration_id", uint64(id)),
		slog.Uint64("event_id", uint64(sub.EventID)),
	)
	w.observe("accepted")
	w.notify(ctx, *reg)

	return Outcome{Status: StatusAccepted, Message: MessageSuccess, RegistrationID: id}, nil
}

func (w *Workflow) reject(errs fieldErrors) Outcome {
	if errs[FieldEmail] == MessageDuplicate {
		w.observe("duplicate")
	} else {
		w.observe("rejected")
	}
	return Outcome{Status: StatusRejected, Errors: errs.list()}
}

func (w *Workflow) observe(outcome string) {
	if w.observer != nil {
		w.observer.ObserveSubmission(outcome)
	}
}

func (w *Workflow) notify(ctx context.Context, reg models.Registration) {
	if w.notifier == nil {
		return
	}

	events, err := w.catalog.EventsByID(ctx, []uint{reg.EventID})
	if err != nil {
		w.logger.Warn("Failed to load event for notification", slog.String("error", err.Error()))
		return
	}

	if err := w.notifier.NotifyRegistration(reg, events[reg.EventID]); err != nil {
		w.logger.Warn("Failed to send registration notification", slog.String("error", err.Error()))
	}
}
