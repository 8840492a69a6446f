package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/campus-events/event-reg/internal/database"
	"github.com/campus-events/event-reg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	may1  = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	may15 = time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	t0    = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	t1    = time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC)
)

func seed(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	events := []models.Event{
		{EventName: "AI Summit", Category: "Tech", EventDate: may1.Unix(), RegistrationStart: t0.Unix(), RegistrationEnd: t1.Unix()},
		{EventName: "Cloud Day", Category: "Tech", EventDate: may1.Unix(), RegistrationStart: t0.Unix(), RegistrationEnd: t1.Unix()},
		{EventName: "Robotics Expo", Category: "Tech", EventDate: may15.Unix(), RegistrationStart: t1.Add(24 * time.Hour).Unix(), RegistrationEnd: may15.Unix()},
		{EventName: "Poetry Night", Category: "Arts", EventDate: may15.Unix(), RegistrationStart: t0.Unix(), RegistrationEnd: t1.Unix()},
		{EventName: "Jazz Evening", Category: "arts", EventDate: may1.Unix(), RegistrationStart: t0.Unix(), RegistrationEnd: t1.Unix()},
	}
	require.NoError(t, db.Create(&events).Error)
	return db
}

func TestOpenEvent(t *testing.T) {
	c := New(seed(t), time.UTC, nil)
	ctx := context.Background()

	t.Run("InsideWindow", func(t *testing.T) {
		ev, err := c.OpenEvent(ctx, t0.Add(time.Hour))
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.True(t, ev.IsOpenAt(t0.Add(time.Hour)))
	})

	t.Run("InclusiveBounds", func(t *testing.T) {
		ev, err := c.OpenEvent(ctx, t1)
		require.NoError(t, err)
		assert.NotNil(t, ev)
	})

	t.Run("OutsideEveryWindow", func(t *testing.T) {
		ev, err := c.OpenEvent(ctx, may15.Add(time.Hour))
		require.NoError(t, err)
		assert.Nil(t, ev)
	})
}

func TestCategories(t *testing.T) {
	c := New(seed(t), time.UTC, nil)

	categories, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Arts", "Tech", "arts"}, categories)
}

func TestDates(t *testing.T) {
	c := New(seed(t), time.UTC, nil)
	ctx := context.Background()

	t.Run("Distinct", func(t *testing.T) {
		dates, err := c.Dates(ctx, "Tech")
		require.NoError(t, err)
		assert.Equal(t, []DateOption{
			{Value: may1.Unix(), Label: "01 May 2024"},
			{Value: may15.Unix(), Label: "15 May 2024"},
		}, dates)
	})

	t.Run("OpenWindowOnly", func(t *testing.T) {
		dates, err := c.OpenDates(ctx, "Tech", t0.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []DateOption{{Value: may1.Unix(), Label: "01 May 2024"}}, dates)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		dates, err := c.Dates(ctx, "Sports")
		require.NoError(t, err)
		assert.Empty(t, dates)
	})

	t.Run("AllDates", func(t *testing.T) {
		dates, err := c.AllDates(ctx)
		require.NoError(t, err)
		assert.Len(t, dates, 2)
	})
}

func TestEventNames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := New(seed(t), time.UTC, logger)

	names, err := c.EventNames(context.Background(), "Tech", may1.Unix())
	require.NoError(t, err)
	require.Len(t, names, 2)

	got := map[uint]string{}
	for _, n := range names {
		got[n.ID] = n.Name
	}
	assert.ElementsMatch(t, []string{"AI Summit", "Cloud Day"}, []string{got[names[0].ID], got[names[1].ID]})

	assert.Contains(t, buf.String(), "Loaded event names")
	assert.Contains(t, buf.String(), "category=Tech")
	assert.Contains(t, buf.String(), "count=2")

	none, err := c.EventNames(context.Background(), "Arts", may1.Unix())
	require.NoError(t, err)
	assert.Empty(t, none, "category match is case-sensitive")
}

func TestEvents(t *testing.T) {
	c := New(seed(t), time.UTC, nil)
	ctx := context.Background()

	all, err := c.Events(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	date := may15.Unix()
	onDate, err := c.Events(ctx, &date)
	require.NoError(t, err)
	assert.Equal(t, []EventOption{{ID: 3, Name: "Robotics Expo"}, {ID: 4, Name: "Poetry Night"}}, onDate)
}

func TestEventsByID(t *testing.T) {
	c := New(seed(t), time.UTC, nil)

	events, err := c.EventsByID(context.Background(), []uint{1, 4, 99})
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "AI Summit", events[1].EventName)
	_, ok := events[99]
	assert.False(t, ok)
}

func TestFormatDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	c := New(nil, loc, nil)
	// 20:00 UTC on 30 Apr is already 1 May in IST.
	ts := time.Date(2024, 4, 30, 20, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "01 May 2024", c.FormatDate(ts))
}
