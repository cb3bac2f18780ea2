package repository

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kelfit/internal/model"
)

func TestProgressRepository_AddWater_SameDayAccumulates(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.AddWater(ctx, 1, "2024-05-01", 300))
	require.NoError(t, repo.AddWater(ctx, 1, "2024-05-01", 300))

	rows, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 600, rows[0].WaterIntake)
	assert.Equal(t, "2024-05-01", rows[0].Date)
}

func TestProgressRepository_AddWater_DifferentDaysCreateRows(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.AddWater(ctx, 1, "2024-05-01", 300))
	require.NoError(t, repo.AddWater(ctx, 1, "2024-05-02", 250))
	require.NoError(t, repo.AddWater(ctx, 2, "2024-05-02", 100))

	rows, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// newest first
	assert.Equal(t, "2024-05-02", rows[0].Date)
	assert.Equal(t, 250, rows[0].WaterIntake)
	assert.Equal(t, "2024-05-01", rows[1].Date)
	assert.Equal(t, 300, rows[1].WaterIntake)
}

func TestProgressRepository_AddWater_ConcurrentCallsKeepEveryIncrement(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.AddWater(ctx, 7, "2024-05-01", 100)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, workers*100, rows[0].WaterIntake)
}

func TestProgressRepository_WeightAndWorkoutKeepWater(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.AddWater(ctx, 1, "2024-05-01", 500))
	require.NoError(t, repo.SetWeight(ctx, 1, "2024-05-01", decimal.RequireFromString("72.5")))
	require.NoError(t, repo.SetWorkoutCompleted(ctx, 1, "2024-05-01", 3))

	rows, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 500, row.WaterIntake)
	require.True(t, row.Weight.Valid)
	assert.True(t, decimal.RequireFromString("72.5").Equal(row.Weight.Decimal))
	require.NotNil(t, row.WorkoutCompletedID)
	assert.Equal(t, uint(3), *row.WorkoutCompletedID)
}

func TestProgressRepository_ListByUser_Empty(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	rows, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestProgressRepository_AddWater_PostgresIssuesSingleUpsert(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	upsert := `INSERT INTO "progress" .+ ON CONFLICT \("user_id","date"\) DO UPDATE SET .*` +
		regexp.QuoteMeta(`"water_intake"=progress.water_intake + excluded.water_intake`) +
		`.* RETURNING "id"`

	mock.ExpectBegin()
	mock.ExpectQuery(upsert).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	repo := NewProgressRepository(gormDB)
	require.NoError(t, repo.AddWater(context.Background(), 1, "2024-05-01", 300))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepository_DateKey(t *testing.T) {
	assert.Len(t, model.DateKey(mustParse(t, "2024-05-01T23:30:00-03:00")), len(model.DateLayout))
	assert.Equal(t, "2024-05-02", model.DateKey(mustParse(t, "2024-05-01T23:30:00-03:00")))
}
