package usecase

import (
	"context"

	"dashboard_backend/internal/feature/settings/domain/entity"
	"dashboard_backend/internal/shared/quote"
)

// ListDomain identifies which watch-list a settings operation targets.
type ListDomain string

const (
	DomainStocks ListDomain = "stocks"
	DomainCoins  ListDomain = "coins"
)

// ParseListDomain validates a domain string from the transport layer.
func ParseListDomain(s string) (ListDomain, error) {
	switch ListDomain(s) {
	case DomainStocks:
		return DomainStocks, nil
	case DomainCoins:
		return DomainCoins, nil
	default:
		return "", ErrUnknownDomain
	}
}

// RemoteStore abstracts the account-scoped settings store (PostgreSQL).
// Following Go convention: interfaces are defined by the consumer
// (usecase), not the provider (adapters).
type RemoteStore interface {
	// Get retrieves the settings row for a user. Returns
	// ErrSettingsNotFound when the user has no row yet.
	Get(ctx context.Context, userID uint) (*entity.UserWidgetSettings, error)

	// UpsertStocks writes the stock list, creating the row if needed.
	// The coin column is left untouched.
	UpsertStocks(ctx context.Context, userID uint, stocks []string) error

	// UpsertCoins writes the coin list, creating the row if needed.
	// The stock column is left untouched.
	UpsertCoins(ctx context.Context, userID uint, coins []string) error
}

// LocalCache abstracts the device-local preference store (Redis).
type LocalCache interface {
	// GetList reads a watch-list slot. Returns ErrCacheMiss when the
	// slot was never written.
	GetList(ctx context.Context, domain ListDomain) ([]string, error)

	// SetList overwrites a watch-list slot.
	SetList(ctx context.Context, domain ListDomain, ids []string) error

	// GetLocation reads the stored weather location. Returns
	// ErrCacheMiss when none was ever saved.
	GetLocation(ctx context.Context) (*quote.Location, error)

	// SetLocation overwrites the stored weather location.
	SetLocation(ctx context.Context, loc quote.Location) error
}
