package driven

import "context"

// SettingsRepository defines the interface for small user settings that
// survive restarts.
type SettingsRepository interface {
	// LastURL returns the last playlist URL that loaded successfully, or an
	// empty string when none was recorded.
	LastURL(ctx context.Context) (string, error)

	// SetLastURL records url as the last successfully loaded playlist URL.
	SetLastURL(ctx context.Context, url string) error
}
