package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	qb "github.com/riskibarqy/ssl-bot/internal/platform/querybuilder"
)

// WelcomeRepository stores greeting toggles in Postgres or SQLite.
type WelcomeRepository struct {
	db *sqlx.DB
}

func NewWelcomeRepository(db *sqlx.DB) *WelcomeRepository {
	return &WelcomeRepository{db: db}
}

func (r *WelcomeRepository) GetByGuildID(ctx context.Context, guildID string) (welcome.Toggle, bool, error) {
	columns, err := qb.Columns(welcomeMessageModel{})
	if err != nil {
		return welcome.Toggle{}, false, err
	}
	query, args, err := qb.Select(columns...).From(welcomeMessagesTable).
		Where(qb.Eq("guild_id", guildID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return welcome.Toggle{}, false, fmt.Errorf("build get welcome toggle query: %w", err)
	}

	var row welcomeMessageModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return welcome.Toggle{}, false, nil
		}
		return welcome.Toggle{}, false, fmt.Errorf("get welcome toggle: %w", err)
	}

	return welcome.Toggle{
		GuildID:   row.GuildID,
		Enabled:   row.Enabled,
		UpdatedAt: row.UpdatedAt.UTC(),
	}, true, nil
}

func (r *WelcomeRepository) Upsert(ctx context.Context, toggle welcome.Toggle) error {
	query, args, err := qb.UpsertModel(welcomeMessagesTable, welcomeMessageModel{
		GuildID:   toggle.GuildID,
		Enabled:   toggle.Enabled,
		UpdatedAt: toggle.UpdatedAt.UTC(),
	}, "guild_id")
	if err != nil {
		return fmt.Errorf("build upsert welcome toggle query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert welcome toggle: %w", err)
	}
	return nil
}
