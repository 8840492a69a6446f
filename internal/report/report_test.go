package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/campus-events/event-reg/internal/catalog"
	"github.com/campus-events/event-reg/internal/database"
	"github.com/campus-events/event-reg/internal/models"
	"github.com/campus-events/event-reg/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	may1    = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Unix()
	may15   = time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC).Unix()
	created = time.Date(2024, 4, 10, 14, 30, 0, 0, time.UTC).Unix()
)

func setup(t *testing.T) (*gorm.DB, *Report) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	events := []models.Event{
		{EventName: "AI Summit", Category: "Tech", EventDate: may1},
		{EventName: "Poetry Night", Category: "Arts", EventDate: may15},
	}
	require.NoError(t, db.Create(&events).Error)

	return db, New(store.NewRegistrationStore(db), catalog.New(db, time.UTC, nil), time.UTC)
}

func addRegistration(t *testing.T, db *gorm.DB, name, email string, eventID uint, at int64) {
	t.Helper()
	reg := models.Registration{
		EventID: eventID,
		Created: at,
		RegistrationFields: models.RegistrationFields{
			FullName:    name,
			Email:       email,
			CollegeName: "City College",
			Department:  "Physics",
		},
	}
	require.NoError(t, db.Create(&reg).Error)
}

func TestExportCSV_Empty(t *testing.T) {
	_, r := setup(t)

	var buf bytes.Buffer
	require.NoError(t, r.ExportCSV(context.Background(), &buf, store.Filter{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"ID", "Full Name", "Email", "College", "Department", "Event Name", "Event Date", "Registered On"}, records[0])
}

func TestExportCSV_Rows(t *testing.T) {
	db, r := setup(t)
	addRegistration(t, db, "Asha Rao", "asha@uni.edu", 1, created)
	addRegistration(t, db, "Ben Ode", "ben@uni.edu", 2, created+60)
	addRegistration(t, db, "Cara Lee", "cara@uni.edu", 99, created+120)

	var buf bytes.Buffer
	require.NoError(t, r.ExportCSV(context.Background(), &buf, store.Filter{}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"3", "Cara Lee", "cara@uni.edu", "City College", "Physics", "-", "-", "10 Apr 2024 14:32"}, records[1])
	assert.Equal(t, []string{"2", "Ben Ode", "ben@uni.edu", "City College", "Physics", "Poetry Night", "15 May 2024", "10 Apr 2024 14:31"}, records[2])
	assert.Equal(t, []string{"1", "Asha Rao", "asha@uni.edu", "City College", "Physics", "AI Summit", "01 May 2024", "10 Apr 2024 14:30"}, records[3])
}

func TestRows_Filtered(t *testing.T) {
	db, r := setup(t)
	addRegistration(t, db, "Asha Rao", "asha@uni.edu", 1, created)
	addRegistration(t, db, "Ben Ode", "ben@uni.edu", 2, created+60)
	addRegistration(t, db, "Dev Shah", "dev@uni.edu", 1, created+90)

	ctx := context.Background()

	t.Run("ByEvent", func(t *testing.T) {
		id := uint(1)
		table, err := r.Rows(ctx, store.Filter{EventID: &id})
		require.NoError(t, err)
		assert.Equal(t, int64(2), table.Total)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Dev Shah", table.Rows[0].FullName)
		assert.Equal(t, "AI Summit", table.Rows[0].EventName)
	})

	t.Run("ByDate", func(t *testing.T) {
		date := may15
		table, err := r.Rows(ctx, store.Filter{EventDate: &date})
		require.NoError(t, err)
		assert.Equal(t, int64(1), table.Total)
		assert.Equal(t, "Ben Ode", table.Rows[0].FullName)
	})

	t.Run("All", func(t *testing.T) {
		table, err := r.Rows(ctx, store.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), table.Total)
		assert.Len(t, table.Rows, 3)
	})
}

func TestRows_Timezone(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	loc := time.FixedZone("IST", 5*3600+1800)
	r := New(store.NewRegistrationStore(db), catalog.New(db, loc, nil), loc)

	addRegistration(t, db, "Asha Rao", "asha@uni.edu", 1, created)

	table, err := r.Rows(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "10 Apr 2024 20:00", table.Rows[0].RegisteredOn)
}

func TestFilters(t *testing.T) {
	_, r := setup(t)
	ctx := context.Background()

	all, err := r.Filters(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, AllPlaceholder, all.Dates[0])
	assert.Len(t, all.Dates, 3)
	assert.Len(t, all.Events, 3)

	date := may1
	narrowed, err := r.Filters(ctx, &date)
	require.NoError(t, err)
	require.Len(t, narrowed.Events, 2)
	assert.Equal(t, "AI Summit", narrowed.Events[1].Label)
	assert.Equal(t, "1", narrowed.Events[1].Value)
}
