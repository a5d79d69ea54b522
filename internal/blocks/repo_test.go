package blocks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sliceops-ai/sliceops-backend/pkg/db/models"
	"github.com/sliceops-ai/sliceops-backend/pkg/enums"
)

func setupBlocksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS blocks (
  id TEXT PRIMARY KEY,
  location_id TEXT NOT NULL,
  block_date DATETIME NOT NULL,
  start_time TEXT NOT NULL,
  end_time TEXT NOT NULL,
  drivers_needed INTEGER NOT NULL DEFAULT 1,
  drivers_confirmed INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'scheduled',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedBlock(t *testing.T, db *gorm.DB, locationID uuid.UUID, date time.Time, start string, status enums.BlockStatus) *models.Block {
	t.Helper()
	block := &models.Block{
		ID:         uuid.New(),
		LocationID: locationID,
		Date:       date,
		StartTime:  start,
		EndTime:    "23:00",
		NeedDriver: 2,
		Status:     status,
	}
	require.NoError(t, db.Create(block).Error)
	return block
}

func TestRepositoryListByLocationFiltersAndOrders(t *testing.T) {
	db := setupBlocksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	locationID := uuid.New()
	otherLocation := uuid.New()
	day := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	late := seedBlock(t, db, locationID, day.AddDate(0, 0, 1), "17:00", enums.BlockScheduled)
	early := seedBlock(t, db, locationID, day, "11:00", enums.BlockScheduled)
	seedBlock(t, db, locationID, day.AddDate(0, 0, -5), "11:00", enums.BlockScheduled)
	seedBlock(t, db, otherLocation, day, "11:00", enums.BlockScheduled)

	list, err := repo.ListByLocation(ctx, locationID, day)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)
}

func TestRepositoryExpireBefore(t *testing.T) {
	db := setupBlocksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	locationID := uuid.New()
	cutoff := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	stale := seedBlock(t, db, locationID, cutoff.AddDate(0, 0, -1), "11:00", enums.BlockScheduled)
	open := seedBlock(t, db, locationID, cutoff.AddDate(0, 0, -2), "11:00", enums.BlockOpen)
	filled := seedBlock(t, db, locationID, cutoff.AddDate(0, 0, -1), "11:00", enums.BlockFilled)
	upcoming := seedBlock(t, db, locationID, cutoff.AddDate(0, 0, 1), "11:00", enums.BlockScheduled)

	count, err := repo.ExpireBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	for _, tc := range []struct {
		id   uuid.UUID
		want enums.BlockStatus
	}{
		{stale.ID, enums.BlockExpired},
		{open.ID, enums.BlockExpired},
		{filled.ID, enums.BlockFilled},
		{upcoming.ID, enums.BlockScheduled},
	} {
		got, err := repo.FindByID(ctx, tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Status)
	}
}

func TestRepositoryUpdatePersistsChanges(t *testing.T) {
	db := setupBlocksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	block := seedBlock(t, db, uuid.New(), time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC), "17:00", enums.BlockScheduled)
	block.Confirmed = 2
	block.Status = enums.BlockFilled
	require.NoError(t, repo.Update(ctx, block))

	got, err := repo.FindByID(ctx, block.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Confirmed)
	assert.Equal(t, enums.BlockFilled, got.Status)
}
