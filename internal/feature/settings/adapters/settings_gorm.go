// Package adapters provides the storage implementations for the settings
// feature: the remote profile store (PostgreSQL) and the local cache
// (Redis).
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dashboard_backend/internal/feature/settings/domain/entity"
	"dashboard_backend/internal/feature/settings/usecase"
)

// settingsGorm implements usecase.RemoteStore on GORM.
type settingsGorm struct {
	db *gorm.DB
}

var _ usecase.RemoteStore = (*settingsGorm)(nil)

// NewSettingsGorm creates the GORM-backed remote profile store.
func NewSettingsGorm(db *gorm.DB) *settingsGorm {
	return &settingsGorm{db: db}
}

// Get fetches a user's widget settings. Returns
// usecase.ErrSettingsNotFound when no record exists yet.
func (r *settingsGorm) Get(ctx context.Context, userID uint) (*entity.UserWidgetSettings, error) {
	var s entity.UserWidgetSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

// upsert inserts or updates exactly one list column, leaving the other
// untouched so partial writes never clobber the sibling domain.
func (r *settingsGorm) upsert(ctx context.Context, userID uint, column string, list entity.SymbolList) error {
	record := entity.UserWidgetSettings{UserID: userID}
	switch column {
	case "stocks":
		record.Stocks = list
	case "coins":
		record.Coins = list
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&record).Error
}

// UpsertStocks writes the stock watch-list for a user.
func (r *settingsGorm) UpsertStocks(ctx context.Context, userID uint, stocks []string) error {
	return r.upsert(ctx, userID, "stocks", entity.SymbolList(stocks))
}

// UpsertCoins writes the coin watch-list for a user.
func (r *settingsGorm) UpsertCoins(ctx context.Context, userID uint, coins []string) error {
	return r.upsert(ctx, userID, "coins", entity.SymbolList(coins))
}
