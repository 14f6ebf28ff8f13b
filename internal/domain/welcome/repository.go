package welcome

import "context"

// Repository persists the per-guild greeting toggle. A guild with no stored
// toggle is disabled.
type Repository interface {
	GetByGuildID(ctx context.Context, guildID string) (Toggle, bool, error)
	Upsert(ctx context.Context, toggle Toggle) error
}
