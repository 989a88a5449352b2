// Package entity defines the domain entities for the settings feature.
package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SymbolList is an ordered set of symbol/market codes stored as one JSON
// column. Order is significant: it drives display order.
type SymbolList []string

// Value serializes the list for storage.
func (l SymbolList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan deserializes the list from storage. A NULL column is an absent
// list, not an empty one.
func (l *SymbolList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported symbol list source %T", src)
	}
}

// UserWidgetSettings is the remote profile record holding one user's
// widget watch-lists. Created on first authenticated write, never
// deleted by this layer. A nil list means "not yet configured"; it is
// distinct from an explicitly empty list.
type UserWidgetSettings struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uint       `gorm:"uniqueIndex;not null"`
	Stocks    SymbolList `gorm:"type:jsonb"`
	Coins     SymbolList `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns the row ID.
func (s *UserWidgetSettings) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
