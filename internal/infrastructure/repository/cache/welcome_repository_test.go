package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	welcomemock "github.com/riskibarqy/ssl-bot/internal/mocks/domain/welcome"
	basecache "github.com/riskibarqy/ssl-bot/internal/platform/cache"
)

func TestWelcomeRepository_ReadThroughAndInvalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := welcomemock.NewRepository(t)
	repo := NewWelcomeRepository(next, basecache.NewStore[CachedToggle](time.Minute))

	next.On("GetByGuildID", mock.Anything, "9").Return(welcome.Toggle{}, false, nil).Once()
	for i := 0; i < 3; i++ {
		_, exists, err := repo.GetByGuildID(ctx, "9")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if exists {
			t.Fatalf("expected missing toggle")
		}
	}

	enabled := welcome.Toggle{GuildID: "9", Enabled: true}
	next.On("Upsert", mock.Anything, enabled).Return(nil).Once()
	if err := repo.Upsert(ctx, enabled); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	next.On("GetByGuildID", mock.Anything, "9").Return(enabled, true, nil).Once()
	got, exists, err := repo.GetByGuildID(ctx, "9")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if !exists || !got.Enabled {
		t.Fatalf("expected fresh toggle after upsert, got %+v exists=%v", got, exists)
	}
}
