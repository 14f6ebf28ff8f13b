package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
)

func TestWelcomeRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewWelcomeRepository([]welcome.Toggle{{GuildID: "1", Enabled: true}})

	got, exists, err := repo.GetByGuildID(ctx, "1")
	if err != nil || !exists || !got.Enabled {
		t.Fatalf("unexpected seeded toggle: %+v exists=%v err=%v", got, exists, err)
	}

	if _, exists, _ := repo.GetByGuildID(ctx, "2"); exists {
		t.Fatalf("expected unknown guild to be missing")
	}

	if err := repo.Upsert(ctx, welcome.Toggle{GuildID: "1"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got, _, _ := repo.GetByGuildID(ctx, "1"); got.Enabled {
		t.Fatalf("expected toggle to be disabled after upsert")
	}
}
