package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
)

type WelcomeRepository struct {
	mu    sync.RWMutex
	items map[string]welcome.Toggle
}

func NewWelcomeRepository(seed []welcome.Toggle) *WelcomeRepository {
	items := make(map[string]welcome.Toggle, len(seed))
	for _, item := range seed {
		items[item.GuildID] = item
	}
	return &WelcomeRepository{items: items}
}

func (r *WelcomeRepository) GetByGuildID(_ context.Context, guildID string) (welcome.Toggle, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[guildID]
	return item, ok, nil
}

func (r *WelcomeRepository) Upsert(_ context.Context, toggle welcome.Toggle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[toggle.GuildID] = toggle
	return nil
}
