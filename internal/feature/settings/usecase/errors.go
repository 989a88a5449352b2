package usecase

import "errors"

var (
	// ErrSettingsNotFound indicates that no settings row exists yet for
	// the user in the remote store.
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrCacheMiss indicates that a local cache slot was never written.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnknownDomain indicates a watch-list domain outside stocks/coins.
	ErrUnknownDomain = errors.New("unknown watch-list domain")

	// ErrDuplicateItem indicates the symbol is already on the watch-list.
	ErrDuplicateItem = errors.New("item already on watch-list")

	// ErrItemNotFound indicates the symbol is not on the watch-list.
	ErrItemNotFound = errors.New("item not on watch-list")
)
