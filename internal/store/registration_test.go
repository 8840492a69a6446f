package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campus-events/event-reg/internal/database"
	"github.com/campus-events/event-reg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	may1  = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Unix()
	may15 = time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC).Unix()
)

func setup(t *testing.T) (*gorm.DB, *RegistrationStore) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	events := []models.Event{
		{EventName: "AI Summit", Category: "Tech", EventDate: may1},
		{EventName: "Poetry Night", Category: "Arts", EventDate: may15},
	}
	require.NoError(t, db.Create(&events).Error)
	return db, NewRegistrationStore(db)
}

func registration(email string, eventID uint, created int64) *models.Registration {
	return &models.Registration{
		EventID: eventID,
		Created: created,
		RegistrationFields: models.RegistrationFields{
			FullName:    "Asha Rao",
			Email:       email,
			CollegeName: "City College",
			Department:  "Physics",
		},
	}
}

func TestInsertAndExists(t *testing.T) {
	_, s := setup(t)
	ctx := context.Background()

	exists, err := s.Exists(ctx, "a@b.com", 1)
	require.NoError(t, err)
	assert.False(t, exists)

	id, err := s.Insert(ctx, registration("a@b.com", 1, 100))
	require.NoError(t, err)
	assert.NotZero(t, id)

	exists, err = s.Exists(ctx, "a@b.com", 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, "a@b.com", 2)
	require.NoError(t, err)
	assert.False(t, exists, "same email on another event is not a duplicate")
}

func TestInsert_DuplicateRejectedByStore(t *testing.T) {
	db, s := setup(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, registration("a@b.com", 1, 100))
	require.NoError(t, err)

	_, err = s.Insert(ctx, registration("a@b.com", 1, 200))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	var count int64
	db.Model(&models.Registration{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestInsert_ConcurrentDuplicates(t *testing.T) {
	db, s := setup(t)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	var accepted, rejected int

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Insert(ctx, registration("race@b.com", 1, int64(i)))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if assert.ErrorIs(t, err, ErrAlreadyRegistered) {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, attempts-1, rejected)

	var count int64
	db.Model(&models.Registration{}).Where("email = ?", "race@b.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListAndCount(t *testing.T) {
	_, s := setup(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, registration("old@b.com", 1, 100))
	require.NoError(t, err)
	_, err = s.Insert(ctx, registration("new@b.com", 1, 300))
	require.NoError(t, err)
	_, err = s.Insert(ctx, registration("arts@b.com", 2, 200))
	require.NoError(t, err)
	_, err = s.Insert(ctx, registration("orphan@b.com", 42, 400))
	require.NoError(t, err)

	t.Run("NewestFirst", func(t *testing.T) {
		regs, err := s.List(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, regs, 4)
		assert.Equal(t, []string{"orphan@b.com", "new@b.com", "arts@b.com", "old@b.com"},
			[]string{regs[0].Email, regs[1].Email, regs[2].Email, regs[3].Email})
	})

	t.Run("ByEvent", func(t *testing.T) {
		id := uint(1)
		regs, err := s.List(ctx, Filter{EventID: &id})
		require.NoError(t, err)
		require.Len(t, regs, 2)
		assert.Equal(t, "new@b.com", regs[0].Email)

		count, err := s.Count(ctx, Filter{EventID: &id})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("ByEventDate", func(t *testing.T) {
		date := may15
		regs, err := s.List(ctx, Filter{EventDate: &date})
		require.NoError(t, err)
		require.Len(t, regs, 1)
		assert.Equal(t, "arts@b.com", regs[0].Email)
		assert.Equal(t, "Physics", regs[0].Department)

		count, err := s.Count(ctx, Filter{EventDate: &date})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ByEventAndMismatchedDate", func(t *testing.T) {
		id, date := uint(1), may15
		regs, err := s.List(ctx, Filter{EventID: &id, EventDate: &date})
		require.NoError(t, err)
		assert.Empty(t, regs)
	})

	t.Run("CountAll", func(t *testing.T) {
		count, err := s.Count(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}
