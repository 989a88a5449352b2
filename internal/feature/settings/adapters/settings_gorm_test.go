package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dashboard_backend/internal/feature/settings/domain/entity"
	"dashboard_backend/internal/feature/settings/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.UserWidgetSettings{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestSettingsGorm_Get_NotFound(t *testing.T) {
	repo := NewSettingsGorm(setupTestDB(t))

	_, err := repo.Get(context.Background(), 42)

	assert.ErrorIs(t, err, usecase.ErrSettingsNotFound)
}

func TestSettingsGorm_UpsertStocks_CreatesRow(t *testing.T) {
	repo := NewSettingsGorm(setupTestDB(t))

	err := repo.UpsertStocks(context.Background(), 1, []string{"005930", "000660"})
	require.NoError(t, err)

	s, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.SymbolList{"005930", "000660"}, s.Stocks)
	// The coin list was never written and stays absent.
	assert.Nil(t, s.Coins)
	assert.False(t, s.CreatedAt.IsZero(), "CreatedAt is not set")
}

func TestSettingsGorm_UpsertStocks_UpdatesExistingRow(t *testing.T) {
	repo := NewSettingsGorm(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertStocks(ctx, 1, []string{"005930"}))
	require.NoError(t, repo.UpsertStocks(ctx, 1, []string{"035420"}))

	s, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.SymbolList{"035420"}, s.Stocks)

	// Still a single row for the user.
	var count int64
	require.NoError(t, repo.db.Model(&entity.UserWidgetSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSettingsGorm_PartialUpsertLeavesSiblingListUntouched(t *testing.T) {
	repo := NewSettingsGorm(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertStocks(ctx, 1, []string{"005930"}))
	require.NoError(t, repo.UpsertCoins(ctx, 1, []string{"KRW-BTC", "KRW-ETH"}))

	s, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.SymbolList{"005930"}, s.Stocks)
	assert.Equal(t, entity.SymbolList{"KRW-BTC", "KRW-ETH"}, s.Coins)
}

func TestSettingsGorm_EmptyListIsStoredNotAbsent(t *testing.T) {
	repo := NewSettingsGorm(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertCoins(ctx, 3, []string{}))

	s, err := repo.Get(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, s.Coins, "explicitly written empty list must round-trip as present")
	assert.Empty(t, s.Coins)
	assert.Nil(t, s.Stocks)
}

func TestSettingsGorm_RowsAreIsolatedPerUser(t *testing.T) {
	repo := NewSettingsGorm(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertStocks(ctx, 1, []string{"005930"}))
	require.NoError(t, repo.UpsertStocks(ctx, 2, []string{"000660"}))

	s1, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	s2, err := repo.Get(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, entity.SymbolList{"005930"}, s1.Stocks)
	assert.Equal(t, entity.SymbolList{"000660"}, s2.Stocks)
	assert.NotEqual(t, s1.ID, s2.ID)
}
