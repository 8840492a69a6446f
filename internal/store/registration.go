// Package store persists registrations.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-events/event-reg/internal/models"
	"gorm.io/gorm"
)

// ErrAlreadyRegistered is returned when the (email, event) pair already exists.
var ErrAlreadyRegistered = errors.New("email already registered for this event")

// Filter narrows listings; nil fields do not filter.
type Filter struct {
	EventID   *uint
	EventDate *int64
}

type RegistrationStore struct {
	db *gorm.DB
}

func NewRegistrationStore(db *gorm.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) Exists(ctx context.Context, email string, eventID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("email = ? AND event_id = ?", email, eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}
	return count > 0, nil
}

// Insert stores reg and returns its new id. The unique (email, event_id) index
// makes the store the final arbiter for duplicates.
func (s *RegistrationStore) Insert(ctx context.Context, reg *models.Registration) (uint, error) {
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrAlreadyRegistered
		}
		return 0, fmt.Errorf("insert registration: %w", err)
	}
	return reg.ID, nil
}

// List returns the matching registrations, newest first.
func (s *RegistrationStore) List(ctx context.Context, f Filter) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.scope(ctx, f).
		Select("registration.*").
		Order("registration.created DESC").
		Order("registration.id DESC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

func (s *RegistrationStore) Count(ctx context.Context, f Filter) (int64, error) {
	var count int64
	if err := s.scope(ctx, f).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func (s *RegistrationStore) scope(ctx context.Context, f Filter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Registration{})
	if f.EventID != nil {
		query = query.Where("registration.event_id = ?", *f.EventID)
	}
	if f.EventDate != nil {
		query = query.
			Joins("JOIN event ON event.id = registration.event_id").
			Where("event.event_date = ?", *f.EventDate)
	}
	return query
}
