package cache

import (
	"context"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	basecache "github.com/riskibarqy/ssl-bot/internal/platform/cache"
)

// CachedToggle is a read-through entry; Exists is false for guilds that never
// stored a toggle.
type CachedToggle struct {
	Value  welcome.Toggle
	Exists bool
}

type WelcomeRepository struct {
	next  welcome.Repository
	cache *basecache.Store[CachedToggle]
}

func NewWelcomeRepository(next welcome.Repository, cache *basecache.Store[CachedToggle]) *WelcomeRepository {
	return &WelcomeRepository{next: next, cache: cache}
}

func (r *WelcomeRepository) GetByGuildID(ctx context.Context, guildID string) (welcome.Toggle, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, welcomeKey(guildID), func(ctx context.Context) (CachedToggle, error) {
		item, exists, err := r.next.GetByGuildID(ctx, guildID)
		if err != nil {
			return CachedToggle{}, err
		}
		return CachedToggle{Value: item, Exists: exists}, nil
	})
	if err != nil {
		return welcome.Toggle{}, false, err
	}
	return cached.Value, cached.Exists, nil
}

func (r *WelcomeRepository) Upsert(ctx context.Context, toggle welcome.Toggle) error {
	if err := r.next.Upsert(ctx, toggle); err != nil {
		return err
	}
	r.cache.Delete(ctx, welcomeKey(toggle.GuildID))
	return nil
}

func welcomeKey(guildID string) string {
	return "welcome:guild:" + guildID
}
